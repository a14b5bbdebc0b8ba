// Package remote talks to the shared words table of the hosted database.
package remote

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/source"
	"github.com/nzebi/dico/pkg/word"
)

// ErrUnavailable is returned when the remote database can not be reached or
// the circuit breaker is open.
var ErrUnavailable = errors.New("remote database unavailable")

const (
	tableName  = "words"
	sourceName = "remote"
)

// Table is row level access to the words table. Rows use the column names of
// word.RawWord.
type Table interface {
	All(ctx context.Context) ([]word.RawWord, error)
	Upsert(ctx context.Context, row word.RawWord) error
	Delete(ctx context.Context, id string) error
}

// Source exposes a Table as a source.Source.
type Source struct {
	table  Table
	logger *zap.Logger
}

var _ source.Source = (*Source)(nil)

func NewSource(table Table, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{table: table, logger: logger}
}

func (s *Source) Name() string {
	return sourceName
}

func (s *Source) Fetch(ctx context.Context) ([]*word.Word, error) {
	rows, err := s.table.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("can not fetch remote words: %w", err)
	}
	words, skipped := word.ConvertRaw(rows)
	if skipped > 0 {
		s.logger.Debug("Skipped incomplete remote rows", zap.Int("skipped", skipped))
	}
	return words, nil
}
