package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzebi/dico/pkg/word"
)

type failingTable struct {
	calls int
	err   error
	rows  []word.RawWord
}

func (f *failingTable) All(ctx context.Context) ([]word.RawWord, error) {
	f.calls++
	return f.rows, f.err
}

func (f *failingTable) Upsert(ctx context.Context, row word.RawWord) error {
	f.calls++
	return f.err
}

func (f *failingTable) Delete(ctx context.Context, id string) error {
	f.calls++
	return f.err
}

func TestBreakerOpens(t *testing.T) {
	table := &failingTable{err: errors.New("connection refused")}
	b := NewBreaker(table, &BreakerConfig{ConsecutiveFailures: 2, Timeout: time.Hour}, nil)
	ctx := context.Background()

	_, err := b.All(ctx)
	assert.EqualError(t, err, "connection refused")
	_, err = b.All(ctx)
	assert.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err = b.Upsert(ctx, word.RawWord{ID: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 2, table.calls)
}

func TestBreakerPassesThrough(t *testing.T) {
	table := &failingTable{rows: []word.RawWord{{ID: "1", NzebiWord: "a", FrenchWord: "b"}}}
	b := NewBreaker(table, &BreakerConfig{}, nil)
	ctx := context.Background()

	rows, err := b.All(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, b.Delete(ctx, "1"))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerIgnoresCanceled(t *testing.T) {
	table := &failingTable{err: context.Canceled}
	b := NewBreaker(table, &BreakerConfig{ConsecutiveFailures: 1}, nil)
	for i := 0; i < 3; i++ {
		_, err := b.All(context.Background())
		assert.True(t, errors.Is(err, context.Canceled))
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
