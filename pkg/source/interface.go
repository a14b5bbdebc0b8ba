package source

import (
	"context"
	"errors"

	"github.com/nzebi/dico/pkg/word"
)

//go:generate go run github.com/vektra/mockery/v2 --name Source --output ../mocks/

// ErrUnavailable marks a source that could not be read. The loader falls
// through to the next source when it sees it.
var ErrUnavailable = errors.New("source unavailable")

// Source yields a complete collection of words.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]*word.Word, error)
}

// Layer is what an overlay holds: live words and the ids deleted locally.
type Layer struct {
	Words   []*word.Word
	Deleted []string
}

// Empty reports whether the layer changes nothing.
func (l *Layer) Empty() bool {
	return l == nil || (len(l.Words) == 0 && len(l.Deleted) == 0)
}

// Overlay is a source of local changes that can also take a copy of a
// fallback source's data.
type Overlay interface {
	Source
	Layer(ctx context.Context) (*Layer, error)
	PutAll(ctx context.Context, words []*word.Word) error
}
