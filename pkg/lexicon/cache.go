package lexicon

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/source"
	"github.com/nzebi/dico/pkg/word"
)

const defaultSearchMemo = 10

// Loader produces the full word collection. *source.Loader implements it.
type Loader interface {
	Load(ctx context.Context) *source.Result
}

type CacheConfig struct {
	// SearchMemo is how many recent search results are kept. Zero means
	// defaultSearchMemo, negative disables the memo.
	SearchMemo int
}

type memoEntry struct {
	key   string
	words []*word.Word
}

// Cache holds the loaded word collection until it is invalidated. Returned
// slices are shared and must not be modified.
type Cache struct {
	loader  Loader
	config  *CacheConfig
	metrics *Metrics
	logger  *zap.Logger

	// loadMu lets one caller run the loader while the others wait for it.
	loadMu sync.Mutex

	mu         sync.Mutex
	words      []*word.Word
	loaded     bool
	generation uint64
	memo       []memoEntry
}

func NewCache(loader Loader, config *CacheConfig, metrics *Metrics, logger *zap.Logger) *Cache {
	if config == nil {
		config = &CacheConfig{}
	}
	if config.SearchMemo == 0 {
		config.SearchMemo = defaultSearchMemo
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		loader:  loader,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// All returns the cached collection, loading it first if needed.
func (c *Cache) All(ctx context.Context) []*word.Word {
	if words, ok := c.snapshot(); ok {
		c.metrics.hit()
		return words
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	c.mu.Lock()
	if c.loaded {
		words := c.words
		c.mu.Unlock()
		c.metrics.hit()
		return words
	}
	generation := c.generation
	c.mu.Unlock()

	c.metrics.miss()
	result := c.loader.Load(ctx)
	c.metrics.loaded(result.Source, result.Failed)
	if ctx.Err() != nil {
		// a canceled load is incomplete, let the next caller retry
		return result.Words
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		c.logger.Debug("Discarding words loaded before invalidation")
		return result.Words
	}
	c.words = result.Words
	c.loaded = true
	return result.Words
}

// Invalidate drops the collection and the memoized searches. The next call
// to All runs the loader again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.words = nil
	c.loaded = false
	c.memo = nil
}

// Search runs Search over the cached collection and remembers the most
// recent results.
func (c *Cache) Search(ctx context.Context, query, categoryID string, tree *word.Tree) []*word.Word {
	key := query + "\x00" + categoryID
	c.mu.Lock()
	generation := c.generation
	if c.loaded {
		for _, e := range c.memo {
			if e.key == key {
				c.mu.Unlock()
				return e.words
			}
		}
	}
	c.mu.Unlock()

	words := Search(c.All(ctx), query, categoryID, tree)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config.SearchMemo > 0 && c.loaded && c.generation == generation {
		c.memo = append(c.memo, memoEntry{key: key, words: words})
		if len(c.memo) > c.config.SearchMemo {
			c.memo = c.memo[len(c.memo)-c.config.SearchMemo:]
		}
	}
	return words
}

func (c *Cache) snapshot() ([]*word.Word, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.words, c.loaded
}
