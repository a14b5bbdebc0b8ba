package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
)

// Favorites returns the favorite word ids in key order.
func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []string
	err := s.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		p := prefix(favoriteKey)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			id, err := unmarshalKey(it.Item().KeyCopy(nil), favoriteKey)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("can not read favorites: %w", err)
	}
	return ids, nil
}

func (s *Store) IsFavorite(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := s.DB.View(func(txn *badger.Txn) error {
		_, err := txn.Get(marshalKey(id, favoriteKey))
		return err
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("can not read favorite %q: %w", id, err)
	}
}

// ToggleFavorite flips the favorite flag of id and returns the new state.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var favorite bool
	err := s.DB.Update(func(txn *badger.Txn) error {
		key := marshalKey(id, favoriteKey)
		_, err := txn.Get(key)
		switch {
		case err == nil:
			favorite = false
			return txn.Delete(key)
		case errors.Is(err, badger.ErrKeyNotFound):
			favorite = true
			return txn.Set(key, nil)
		default:
			return err
		}
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return favorite, nil
}

// SaveState stores a JSON snapshot of v under name, e.g. the scroll position
// or the last viewed word id.
func (s *Store) SaveState(ctx context.Context, name string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("can not encode state %q: %w", name, err)
	}
	err = s.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(marshalKey(name, stateKey), value)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// LoadState decodes the snapshot stored under name into v. It returns false
// when nothing was saved.
func (s *Store) LoadState(ctx context.Context, name string, v interface{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(marshalKey(name, stateKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("can not read state %q: %w", name, err)
	}
	return true, nil
}
