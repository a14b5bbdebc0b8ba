package remote

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nzebi/dico/pkg/word"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS words (
	id TEXT PRIMARY KEY,
	nzebi_word TEXT NOT NULL,
	french_word TEXT NOT NULL,
	part_of_speech TEXT NOT NULL DEFAULT '',
	example_nzebi TEXT,
	example_french TEXT,
	pronunciation_url TEXT,
	is_verb INTEGER,
	plural_form TEXT,
	synonyms TEXT,
	scientific_name TEXT,
	imperative TEXT
);
CREATE INDEX IF NOT EXISTS idx_words_part_of_speech ON words(part_of_speech);
`

// SQL is a Table in a relational database reached through database/sql.
// The schema targets sqlite.
type SQL struct {
	db *sql.DB
}

// OpenSQL opens a sqlite database at dsn and runs the migrations.
func OpenSQL(dsn string) (*SQL, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("can not open database: %w", err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("can not migrate database: %w", err)
	}
	return NewSQL(db), nil
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

// InitDB creates the words table when missing.
func InitDB(db *sql.DB) error {
	for _, s := range strings.Split(migrationsSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQL) All(ctx context.Context) ([]word.RawWord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, nzebi_word, french_word, part_of_speech,
		example_nzebi, example_french, pronunciation_url, is_verb,
		plural_form, synonyms, scientific_name, imperative FROM words ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []word.RawWord
	for rows.Next() {
		var r word.RawWord
		var id string
		var exNzebi, exFrench, pron, plural, syn, sci, imp sql.NullString
		var isVerb sql.NullBool
		if err := rows.Scan(&id, &r.NzebiWord, &r.FrenchWord, &r.PartOfSpeech,
			&exNzebi, &exFrench, &pron, &isVerb, &plural, &syn, &sci, &imp); err != nil {
			return nil, err
		}
		r.ID = word.FlexString(id)
		r.ExampleNzebi = nullable(exNzebi)
		r.ExampleFrench = nullable(exFrench)
		r.PronunciationURL = nullable(pron)
		r.PluralForm = nullable(plural)
		r.Synonyms = nullable(syn)
		r.ScientificName = nullable(sci)
		r.Imperative = nullable(imp)
		if isVerb.Valid {
			r.IsVerb = word.BoolOf(isVerb.Bool)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQL) Upsert(ctx context.Context, r word.RawWord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO words (id, nzebi_word, french_word, part_of_speech,
			example_nzebi, example_french, pronunciation_url, is_verb,
			plural_form, synonyms, scientific_name, imperative)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			nzebi_word = excluded.nzebi_word,
			french_word = excluded.french_word,
			part_of_speech = excluded.part_of_speech,
			example_nzebi = excluded.example_nzebi,
			example_french = excluded.example_french,
			pronunciation_url = excluded.pronunciation_url,
			is_verb = excluded.is_verb,
			plural_form = excluded.plural_form,
			synonyms = excluded.synonyms,
			scientific_name = excluded.scientific_name,
			imperative = excluded.imperative`,
		string(r.ID), r.NzebiWord, r.FrenchWord, r.PartOfSpeech,
		r.ExampleNzebi, r.ExampleFrench, r.PronunciationURL, r.IsVerb.Ptr(),
		r.PluralForm, r.Synonyms, r.ScientificName, r.Imperative)
	if err != nil {
		return fmt.Errorf("upsert word %q: %w", r.ID, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete word %q: %w", id, err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
