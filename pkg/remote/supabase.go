package remote

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/nzebi/dico/pkg/word"
)

// Supabase is a Table backed by the PostgREST API of a Supabase project.
// The client library does not take a context; ctx is only checked before
// each request.
type Supabase struct {
	client *supabase.Client
	table  string
}

type SupabaseConfig struct {
	URL string
	Key string
	// Table defaults to "words".
	Table string
}

func NewSupabase(config *SupabaseConfig) (*Supabase, error) {
	client, err := supabase.NewClient(config.URL, config.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("can not create supabase client: %w", err)
	}
	table := config.Table
	if table == "" {
		table = tableName
	}
	return &Supabase{client: client, table: table}, nil
}

func (s *Supabase) All(ctx context.Context) ([]word.RawWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []word.RawWord
	if _, err := s.client.From(s.table).Select("*", "", false).ExecuteTo(&rows); err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrUnavailable, s.table, err)
	}
	return rows, nil
}

func (s *Supabase) Upsert(ctx context.Context, row word.RawWord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(s.table).Upsert(row, "id", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("%w: upsert %s %q: %v", ErrUnavailable, s.table, row.ID, err)
	}
	return nil
}

func (s *Supabase) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.client.From(s.table).Delete("minimal", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("%w: delete %s %q: %v", ErrUnavailable, s.table, id, err)
	}
	return nil
}
