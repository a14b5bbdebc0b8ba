package lexicon

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/word"
)

const defaultRemoteTimeout = 10 * time.Second

var (
	ErrNotFound = errors.New("word not found")
	// ErrRemoteWrite is returned in RemoteThrough mode when the local write
	// succeeded but the remote database rejected the change.
	ErrRemoteWrite = errors.New("remote write failed")
)

//go:generate go run github.com/vektra/mockery/v2 --name RemoteWriter --output ../mocks/

// RemoteWriter receives local changes. remote.Table implements it.
type RemoteWriter interface {
	Upsert(ctx context.Context, row word.RawWord) error
	Delete(ctx context.Context, id string) error
}

// Store is the local overlay as seen by the service. *overlay.Store
// implements it.
type Store interface {
	Get(ctx context.Context, id string) (*word.Word, bool, error)
	Put(ctx context.Context, w *word.Word) error
	Delete(ctx context.Context, id string) error
	Favorites(ctx context.Context) ([]string, error)
	IsFavorite(ctx context.Context, id string) (bool, error)
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	SaveState(ctx context.Context, name string, v interface{}) error
	LoadState(ctx context.Context, name string, v interface{}) (bool, error)
}

// RemoteMode selects how local changes reach the remote database.
type RemoteMode int

const (
	RemoteOff RemoteMode = iota
	// RemoteThrough waits for the remote write.
	RemoteThrough
	// RemoteBehind queues the remote write and returns.
	RemoteBehind
)

func (m RemoteMode) String() string {
	switch m {
	case RemoteOff:
		return "off"
	case RemoteThrough:
		return "through"
	case RemoteBehind:
		return "behind"
	default:
		return fmt.Sprintf("RemoteMode(%d)", int(m))
	}
}

func ParseRemoteMode(s string) (RemoteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return RemoteOff, nil
	case "through":
		return RemoteThrough, nil
	case "behind":
		return RemoteBehind, nil
	default:
		return 0, fmt.Errorf("unknown remote mode %q", s)
	}
}

type ServiceConfig struct {
	Remote RemoteMode
	// RemoteTimeout bounds one remote write.
	RemoteTimeout time.Duration
}

// Service is the entry point of the hosts: reads go through the cache and
// mutations go to the overlay, then invalidate the cache.
type Service struct {
	cache   *Cache
	store   Store
	remote  RemoteWriter
	tree    *word.Tree
	config  *ServiceConfig
	metrics *Metrics
	logger  *zap.Logger

	// mu serializes mutations.
	mu sync.Mutex
	// pool has one worker so remote writes keep their order.
	pool *workerpool.WorkerPool
}

// NewService composes the service. remote may be nil, tree nil means
// word.DefaultTree.
func NewService(cache *Cache, store Store, remote RemoteWriter, tree *word.Tree,
	config *ServiceConfig, metrics *Metrics, logger *zap.Logger) *Service {
	if config == nil {
		config = &ServiceConfig{}
	}
	if remote == nil {
		config.Remote = RemoteOff
	}
	if config.RemoteTimeout <= 0 {
		config.RemoteTimeout = defaultRemoteTimeout
	}
	if tree == nil {
		tree = word.DefaultTree()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cache:   cache,
		store:   store,
		remote:  remote,
		tree:    tree,
		config:  config,
		metrics: metrics,
		logger:  logger,
		pool:    workerpool.New(1),
	}
}

// Add stores a new word under a fresh time ordered id.
func (s *Service) Add(ctx context.Context, form word.FormValues) (*word.Word, error) {
	w, err := s.add(ctx, form)
	s.metrics.mutation("add", err)
	return w, err
}

func (s *Service) add(ctx context.Context, form word.FormValues) (*word.Word, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("can not generate word id: %w", err)
	}
	w := form.Word(id.String())
	if err := s.store.Put(ctx, w); err != nil {
		return nil, fmt.Errorf("can not add word: %w", err)
	}
	s.cache.Invalidate()
	s.logger.Debug("Word added", zap.String("id", w.ID), zap.String("headword", w.Headword))

	row := word.FromWord(w)
	return w, s.push(ctx, "add", func(ctx context.Context) error {
		return s.remote.Upsert(ctx, row)
	})
}

// Edit replaces the word with the form's id. The id must be known to the
// overlay or the loaded collection.
func (s *Service) Edit(ctx context.Context, form word.FormValues) (*word.Word, error) {
	w, err := s.edit(ctx, form)
	s.metrics.mutation("edit", err)
	return w, err
}

func (s *Service) edit(ctx context.Context, form word.FormValues) (*word.Word, error) {
	if err := validateEdit(&form); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(form.ID)
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("can not edit %q: %w", id, ErrNotFound)
	}
	w := form.Word(id)
	if err := s.store.Put(ctx, w); err != nil {
		return nil, fmt.Errorf("can not edit word: %w", err)
	}
	s.cache.Invalidate()
	s.logger.Debug("Word edited", zap.String("id", id))

	row := word.FromWord(w)
	return w, s.push(ctx, "edit", func(ctx context.Context) error {
		return s.remote.Upsert(ctx, row)
	})
}

// validateEdit checks the form and requires the id.
func validateEdit(form *word.FormValues) error {
	var fields []string
	if err := form.Validate(); err != nil {
		var verr *word.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		fields = append(fields, verr.Fields...)
	}
	if strings.TrimSpace(form.ID) == "" {
		fields = append(fields, "id")
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &word.ValidationError{Fields: fields}
}

func (s *Service) exists(ctx context.Context, id string) (bool, error) {
	w, deleted, err := s.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		return false, nil
	}
	if w != nil {
		return true, nil
	}
	for _, w := range s.cache.All(ctx) {
		if w.ID == id {
			return true, nil
		}
	}
	// an interrupted load proves nothing about the id
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return false, nil
}

// Delete hides the word with the given id. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	err := s.delete(ctx, id)
	s.metrics.mutation("delete", err)
	if err != nil && !errors.Is(err, ErrRemoteWrite) {
		return false, err
	}
	return true, err
}

func (s *Service) delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return &word.ValidationError{Fields: []string{"id"}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("can not delete word: %w", err)
	}
	s.cache.Invalidate()
	s.logger.Debug("Word deleted", zap.String("id", id))

	return s.push(ctx, "delete", func(ctx context.Context) error {
		return s.remote.Delete(ctx, id)
	})
}

// push forwards a change to the remote database according to the mode.
func (s *Service) push(ctx context.Context, kind string, write func(ctx context.Context) error) error {
	switch s.config.Remote {
	case RemoteThrough:
		var err error
		s.pool.SubmitWait(func() {
			ctx, cancel := context.WithTimeout(ctx, s.config.RemoteTimeout)
			defer cancel()
			err = write(ctx)
		})
		if err != nil {
			s.logger.Warn("Remote write failed", zap.String("kind", kind), zap.Error(err))
			return fmt.Errorf("%w: %s: %v", ErrRemoteWrite, kind, err)
		}
	case RemoteBehind:
		s.pool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.config.RemoteTimeout)
			defer cancel()
			if err := write(ctx); err != nil {
				s.logger.Warn("Remote write failed", zap.String("kind", kind), zap.Error(err))
			}
		})
	}
	return nil
}

// Words returns the whole collection sorted by headword.
func (s *Service) Words(ctx context.Context) []*word.Word {
	return s.cache.All(ctx)
}

// Get returns a copy of the word, callers may change it freely.
func (s *Service) Get(ctx context.Context, id string) (*word.Word, error) {
	for _, w := range s.cache.All(ctx) {
		if w.ID == id {
			return w.Clone(), nil
		}
	}
	return nil, fmt.Errorf("can not get %q: %w", id, ErrNotFound)
}

func (s *Service) Search(ctx context.Context, query, categoryID string) []*word.Word {
	return s.cache.Search(ctx, query, categoryID, s.tree)
}

// Browse is a page of Search.
func (s *Service) Browse(ctx context.Context, query, categoryID string, offset, limit int) Page {
	return Paginate(s.Search(ctx, query, categoryID), offset, limit)
}

func (s *Service) Categories() *word.Tree {
	return s.tree
}

// CategoryCounts counts the words of every category, subcategories included.
func (s *Service) CategoryCounts(ctx context.Context) map[string]int {
	return CountByCategory(s.cache.All(ctx), s.tree)
}

// Favorites returns the favorite words that still exist, in collection order.
func (s *Service) Favorites(ctx context.Context) ([]*word.Word, error) {
	ids, err := s.store.Favorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("can not read favorites: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	favorites := []*word.Word{}
	for _, w := range s.cache.All(ctx) {
		if _, ok := set[w.ID]; ok {
			favorites = append(favorites, w)
		}
	}
	return favorites, nil
}

// ToggleFavorite flips the favorite mark of id and returns the new state.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, &word.ValidationError{Fields: []string{"id"}}
	}
	return s.store.ToggleFavorite(ctx, id)
}

func (s *Service) IsFavorite(ctx context.Context, id string) (bool, error) {
	return s.store.IsFavorite(ctx, id)
}

// SaveState keeps a snapshot of UI state, such as the scroll position or the
// last viewed word, under name.
func (s *Service) SaveState(ctx context.Context, name string, v interface{}) error {
	if strings.TrimSpace(name) == "" {
		return &word.ValidationError{Fields: []string{"name"}}
	}
	return s.store.SaveState(ctx, name, v)
}

// LoadState reads the snapshot saved under name into v. It reports false
// when there is none.
func (s *Service) LoadState(ctx context.Context, name string, v interface{}) (bool, error) {
	return s.store.LoadState(ctx, name, v)
}

// Invalidate clears the cache, for example after the bulk file changed.
func (s *Service) Invalidate() {
	s.cache.Invalidate()
}

// Close waits for queued remote writes.
func (s *Service) Close() error {
	s.pool.StopWait()
	return nil
}
