// Package overlay persists local word changes, favorites and UI state in an
// embedded badger database.
package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"go.uber.org/zap"

	"github.com/nzebi/dico/pkg/source"
	"github.com/nzebi/dico/pkg/word"
)

// ErrWrite wraps every failed write so callers can report unsaved changes.
var ErrWrite = errors.New("overlay write failed")

const sourceName = "overlay"

type Config struct {
	// Path is the badger directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
}

// entry is the stored value of a word key. Deleted entries hide words with
// the same id coming from other sources.
type entry struct {
	Word    *word.Word `json:"word,omitempty"`
	Deleted bool       `json:"deleted,omitempty"`
}

type Store struct {
	DB     *badger.DB
	logger *zap.Logger
}

// Open opens (or creates) the badger database described by config.
func Open(config *Config, logger *zap.Logger) (*Store, error) {
	opts := badger.DefaultOptions(config.Path)
	if config.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("can not open overlay: %w", err)
	}
	return New(db, logger), nil
}

func New(db *badger.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{DB: db, logger: logger}
}

func (s *Store) Name() string {
	return sourceName
}

// Fetch returns the live overlay words.
func (s *Store) Fetch(ctx context.Context) ([]*word.Word, error) {
	layer, err := s.Layer(ctx)
	if err != nil {
		return nil, err
	}
	return layer.Words, nil
}

// Layer returns live words and tombstoned ids.
func (s *Store) Layer(ctx context.Context) (*source.Layer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layer := &source.Layer{}
	err := s.DB.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := prefix(wordKey)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			item := it.Item()
			id, err := unmarshalKey(item.KeyCopy(nil), wordKey)
			if err != nil {
				return err
			}
			var e entry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				s.logger.Warn("Skipping unreadable overlay entry", zap.String("id", id), zap.Error(err))
				continue
			}
			switch {
			case e.Deleted:
				layer.Deleted = append(layer.Deleted, id)
			case e.Word.Valid():
				layer.Words = append(layer.Words, e.Word)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can not read overlay: %w", err)
	}
	return layer, nil
}

// Get returns the overlay's version of id. deleted is true for a tombstone.
func (s *Store) Get(ctx context.Context, id string) (w *word.Word, deleted bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var e entry
	err = s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(marshalKey(id, wordKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("can not read overlay entry %q: %w", id, err)
	}
	return e.Word, e.Deleted, nil
}

// Put stores w, replacing any previous version or tombstone.
func (s *Store) Put(ctx context.Context, w *word.Word) error {
	return s.PutAll(ctx, []*word.Word{w})
}

// PutAll stores words in one transaction.
func (s *Store) PutAll(ctx context.Context, words []*word.Word) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.DB.Update(func(txn *badger.Txn) error {
		for _, w := range words {
			if err := setEntry(txn, w.ID, &entry{Word: w}); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, badger.ErrTxnTooBig) {
		// Large fallback collections do not fit a single transaction.
		err = s.putBatch(words)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func (s *Store) putBatch(words []*word.Word) error {
	wb := s.DB.NewWriteBatch()
	defer wb.Cancel()
	for _, w := range words {
		value, err := json.Marshal(&entry{Word: w})
		if err != nil {
			return err
		}
		if err := wb.Set(marshalKey(w.ID, wordKey), value); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Delete writes a tombstone for id. Deleting an unknown id still records the
// tombstone, so a word arriving later from another source stays hidden.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.DB.Update(func(txn *badger.Txn) error {
		return setEntry(txn, id, &entry{Deleted: true})
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func setEntry(txn *badger.Txn, id string, e *entry) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return txn.Set(marshalKey(id, wordKey), value)
}
