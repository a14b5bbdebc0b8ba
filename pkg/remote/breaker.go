package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/word"
)

type BreakerConfig struct {
	Name string
	// MaxRequests allowed while half-open.
	MaxRequests uint32
	// Interval clears the counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// Breaker guards a Table with a circuit breaker so an unreachable database
// fails fast instead of stalling every load.
type Breaker struct {
	table Table
	cb    *gobreaker.CircuitBreaker
}

func NewBreaker(table Table, config *BreakerConfig, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Name == "" {
		config.Name = tableName
	}
	if config.ConsecutiveFailures == 0 {
		config.ConsecutiveFailures = 3
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	threshold := config.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Remote circuit breaker changed state",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// A canceled caller says nothing about the database.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &Breaker{table: table, cb: cb}
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) All(ctx context.Context) ([]word.RawWord, error) {
	rows, err := b.cb.Execute(func() (interface{}, error) {
		return b.table.All(ctx)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	return rows.([]word.RawWord), nil
}

func (b *Breaker) Upsert(ctx context.Context, row word.RawWord) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.table.Upsert(ctx, row)
	})
	return b.wrap(err)
}

func (b *Breaker) Delete(ctx context.Context, id string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.table.Delete(ctx, id)
	})
	return b.wrap(err)
}

func (b *Breaker) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
