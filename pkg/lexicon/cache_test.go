package lexicon

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzebi/dico/pkg/source"
	"github.com/nzebi/dico/pkg/word"
)

type fakeLoader struct {
	calls   int32
	words   []*word.Word
	started chan struct{}
	release chan struct{}
}

func (l *fakeLoader) Load(ctx context.Context) *source.Result {
	atomic.AddInt32(&l.calls, 1)
	if l.started != nil {
		l.started <- struct{}{}
	}
	if l.release != nil {
		<-l.release
	}
	return &source.Result{Words: l.words, Source: "static", Failed: []string{"remote"}}
}

func (l *fakeLoader) count() int {
	return int(atomic.LoadInt32(&l.calls))
}

func TestCacheMemoizes(t *testing.T) {
	loader := &fakeLoader{words: testWords()}
	metrics := NewMetrics(prometheus.NewRegistry())
	cache := NewCache(loader, nil, metrics, nil)
	ctx := context.Background()

	first := cache.All(ctx)
	second := cache.All(ctx)
	assert.Equal(t, 1, loader.count())
	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Loads.WithLabelValues("static")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SourceFailures.WithLabelValues("remote")))

	cache.Invalidate()
	cache.All(ctx)
	assert.Equal(t, 2, loader.count())
}

func TestCacheSharesLoad(t *testing.T) {
	loader := &fakeLoader{
		words:   testWords(),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	cache := NewCache(loader, nil, nil, nil)

	var wg sync.WaitGroup
	results := make([][]*word.Word, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.All(context.Background())
		}(i)
	}
	<-loader.started
	close(loader.release)
	wg.Wait()

	assert.Equal(t, 1, loader.count())
	for _, r := range results {
		assert.Len(t, r, len(loader.words))
	}
}

func TestCacheDropsStaleLoad(t *testing.T) {
	loader := &fakeLoader{
		words:   testWords(),
		started: make(chan struct{}, 2),
		release: make(chan struct{}, 2),
	}
	cache := NewCache(loader, nil, nil, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		cache.All(context.Background())
	}()
	<-loader.started
	cache.Invalidate()
	loader.release <- struct{}{}
	<-done

	// the first result was discarded, so the next call loads again
	loader.release <- struct{}{}
	cache.All(context.Background())
	<-loader.started
	assert.Equal(t, 2, loader.count())
}

func TestCacheCanceledLoadNotStored(t *testing.T) {
	loader := &fakeLoader{words: testWords()}
	cache := NewCache(loader, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache.All(ctx)
	cache.All(context.Background())
	assert.Equal(t, 2, loader.count())
}

func TestCacheSearchMemo(t *testing.T) {
	loader := &fakeLoader{words: testWords()}
	cache := NewCache(loader, &CacheConfig{SearchMemo: 2}, nil, nil)
	tree := testTree(t)
	ctx := context.Background()

	first := cache.Search(ctx, "enfant", "", tree)
	require.Len(t, first, 1)
	again := cache.Search(ctx, "enfant", "", tree)
	// memoized results are the same slice
	assert.Same(t, &first[0], &again[0])

	cache.Search(ctx, "a", "", tree)
	cache.Search(ctx, "e", "", tree)
	evicted := cache.Search(ctx, "enfant", "", tree)
	assert.NotSame(t, &first[0], &evicted[0])

	cache.Invalidate()
	fresh := cache.Search(ctx, "enfant", "noun", tree)
	assert.Len(t, fresh, 1)
	assert.Equal(t, 2, loader.count())
}
