package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/word"
)

const defaultStepTimeout = 10 * time.Second

// Policy decides how the overlay is combined with the first non-empty source.
type Policy int

const (
	// MergeOverlayOnTop replaces and extends the winning source with overlay
	// words, so local edits are never discarded by the canonical source.
	MergeOverlayOnTop Policy = iota
	// FirstNonEmpty returns the first non-empty source as is. Overlay
	// deletions are still applied.
	FirstNonEmpty
)

func (p Policy) String() string {
	switch p {
	case MergeOverlayOnTop:
		return "merge"
	case FirstNonEmpty:
		return "first"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts the names returned by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "merge":
		return MergeOverlayOnTop, nil
	case "first":
		return FirstNonEmpty, nil
	default:
		return 0, fmt.Errorf("unknown policy %q", s)
	}
}

// Step is one source of the chain.
type Step struct {
	Source Source
	// Persist copies a non-empty result into the overlay.
	Persist bool
}

type LoaderConfig struct {
	Policy Policy
	// Timeout bounds each step. Zero means defaultStepTimeout.
	Timeout time.Duration
}

// Result of a load.
type Result struct {
	Words []*word.Word
	// Source is the name of the step that supplied the base collection,
	// empty when every source was empty or unavailable.
	Source string
	// Failed lists the steps that returned an error.
	Failed []string
}

// Loader reads the word collection from an ordered chain of sources.
type Loader struct {
	steps   []Step
	overlay Overlay
	config  *LoaderConfig
	logger  *zap.Logger
}

// NewLoader returns a loader over steps. overlay may be nil, in which case
// nothing is merged or persisted.
func NewLoader(steps []Step, overlay Overlay, config *LoaderConfig, logger *zap.Logger) *Loader {
	if config == nil {
		config = &LoaderConfig{}
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultStepTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		steps:   steps,
		overlay: overlay,
		config:  config,
		logger:  logger,
	}
}

// Default builds the chain static, overlay, remote. The remote result is
// persisted into the overlay. Nil sources are left out.
func Default(static Source, overlay Overlay, remote Source, config *LoaderConfig, logger *zap.Logger) *Loader {
	var steps []Step
	if static != nil {
		steps = append(steps, Step{Source: static})
	}
	if overlay != nil {
		steps = append(steps, Step{Source: overlay})
	}
	if remote != nil {
		steps = append(steps, Step{Source: remote, Persist: true})
	}
	return NewLoader(steps, overlay, config, logger)
}

// Load never fails: unavailable sources are logged and skipped, and when all
// of them fail the result is empty. Words are sorted by headword.
func (l *Loader) Load(ctx context.Context) *Result {
	result := &Result{Words: []*word.Word{}}
	for _, step := range l.steps {
		name := step.Source.Name()
		words, err := l.fetch(ctx, step.Source)
		if err != nil {
			l.logger.Warn("Source unavailable", zap.String("source", name), zap.Error(err))
			result.Failed = append(result.Failed, name)
			continue
		}
		if len(words) == 0 {
			l.logger.Debug("Source is empty", zap.String("source", name))
			continue
		}
		result.Source = name
		result.Words = l.combine(ctx, step, words)
		break
	}
	word.SortByHeadword(result.Words)
	l.logger.Debug("Words loaded",
		zap.String("source", result.Source),
		zap.Int("count", len(result.Words)),
	)
	return result
}

func (l *Loader) fetch(ctx context.Context, s Source) ([]*word.Word, error) {
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()
	words, err := s.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %s: %v", ErrUnavailable, s.Name(), err)
		}
		return nil, err
	}
	return words, nil
}

// combine applies the overlay to the base collection according to the policy.
func (l *Loader) combine(ctx context.Context, step Step, base []*word.Word) []*word.Word {
	base = word.Dedup(base)
	if l.overlay == nil || l.isOverlay(step.Source) {
		return base
	}
	layerCtx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	layer, err := l.overlay.Layer(layerCtx)
	cancel()
	if err != nil {
		l.logger.Warn("Overlay unavailable, using source as is",
			zap.String("source", step.Source.Name()), zap.Error(err))
		return base
	}
	if step.Persist {
		l.persist(ctx, step.Source.Name(), live(base, layer))
	}
	return apply(base, layer, l.config.Policy == MergeOverlayOnTop)
}

// persist copies words into the overlay. Failures only cost the fallback copy.
func (l *Loader) persist(ctx context.Context, name string, words []*word.Word) {
	if len(words) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()
	if err := l.overlay.PutAll(ctx, words); err != nil {
		l.logger.Warn("Can not persist words into overlay",
			zap.String("source", name), zap.Error(err))
	}
}

// live returns the words of base that the layer neither deleted nor holds,
// so persisting them never overwrites a tombstone or a local edit.
func live(base []*word.Word, layer *Layer) []*word.Word {
	skip := make(map[string]struct{}, len(layer.Words)+len(layer.Deleted))
	for _, w := range layer.Words {
		skip[w.ID] = struct{}{}
	}
	for _, id := range layer.Deleted {
		skip[id] = struct{}{}
	}
	out := make([]*word.Word, 0, len(base))
	for _, w := range base {
		if _, ok := skip[w.ID]; !ok {
			out = append(out, w)
		}
	}
	return out
}

func (l *Loader) isOverlay(s Source) bool {
	o, ok := s.(Overlay)
	return ok && o == l.overlay
}

// apply removes the layer's deleted ids from base and, when replace is set,
// overlays its words: same ids are replaced in place, new ids are appended.
func apply(base []*word.Word, layer *Layer, replace bool) []*word.Word {
	if layer.Empty() {
		return base
	}
	out := base
	if replace {
		index := make(map[string]int, len(base))
		for i, w := range base {
			index[w.ID] = i
		}
		for _, w := range layer.Words {
			if i, ok := index[w.ID]; ok {
				out[i] = w
				continue
			}
			index[w.ID] = len(out)
			out = append(out, w)
		}
	}
	if len(layer.Deleted) == 0 {
		return out
	}
	deleted := make(map[string]struct{}, len(layer.Deleted))
	for _, id := range layer.Deleted {
		deleted[id] = struct{}{}
	}
	kept := out[:0]
	for _, w := range out {
		if _, ok := deleted[w.ID]; !ok {
			kept = append(kept, w)
		}
	}
	return kept
}
