// Package word holds the dictionary's record types and the rules that turn
// loosely shaped source data into them.
package word

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nzebi/dico/pkg/fold"
)

// Bool is a tri-state boolean: a source may say yes, no, or nothing at all.
type Bool int8

const (
	Unset Bool = iota
	True
	False
)

// truthy lists the string tokens accepted as "true". Sources were edited by
// hand in French and English.
var truthy = map[string]bool{
	"oui":  true,
	"vrai": true,
	"true": true,
	"1":    true,
	"o":    true,
}

// BoolOf converts a Go bool.
func BoolOf(b bool) Bool {
	if b {
		return True
	}
	return False
}

// ParseBool maps a string token to a Bool. Blank strings are Unset, known
// truthy tokens are True and everything else is False.
func ParseBool(s string) Bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Unset
	}
	if truthy[s] {
		return True
	}
	return False
}

// IsSet reports whether the value was given.
func (b Bool) IsSet() bool { return b != Unset }

// Value returns the boolean, Unset reads as false.
func (b Bool) Value() bool { return b == True }

// Ptr returns nil for Unset.
func (b Bool) Ptr() *bool {
	if b == Unset {
		return nil
	}
	v := b == True
	return &v
}

func (b Bool) String() string {
	switch b {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unset"
	}
}

func (b Bool) MarshalJSON() ([]byte, error) {
	if b == Unset {
		return []byte("null"), nil
	}
	return json.Marshal(b == True)
}

// UnmarshalJSON accepts null, a JSON boolean, a number or a string token.
func (b *Bool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*b = Unset
	case bytes.Equal(data, []byte("true")):
		*b = True
	case bytes.Equal(data, []byte("false")):
		*b = False
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("can not decode boolean token: %w", err)
		}
		*b = ParseBool(s)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported boolean encoding %s", data)
		}
		*b = BoolOf(n != 0)
	}
	return nil
}

// Word is a dictionary entry. Optional fields are nil when absent, never "".
type Word struct {
	ID                 string  `json:"id"`
	Headword           string  `json:"headword"`
	Translation        string  `json:"translation"`
	PartOfSpeech       string  `json:"part_of_speech"`
	ExampleSource      *string `json:"example_source,omitempty"`
	ExampleTranslation *string `json:"example_translation,omitempty"`
	PronunciationURL   *string `json:"pronunciation_url,omitempty"`
	IsVerb             Bool    `json:"is_verb,omitempty"`
	PluralForm         *string `json:"plural_form,omitempty"`
	Synonyms           *string `json:"synonyms,omitempty"`
	ScientificName     *string `json:"scientific_name,omitempty"`
	ImperativeForm     *string `json:"imperative_form,omitempty"`
}

// Clone returns a deep copy of w.
func (w *Word) Clone() *Word {
	if w == nil {
		return nil
	}
	c := *w
	c.ExampleSource = cloneString(w.ExampleSource)
	c.ExampleTranslation = cloneString(w.ExampleTranslation)
	c.PronunciationURL = cloneString(w.PronunciationURL)
	c.PluralForm = cloneString(w.PluralForm)
	c.Synonyms = cloneString(w.Synonyms)
	c.ScientificName = cloneString(w.ScientificName)
	c.ImperativeForm = cloneString(w.ImperativeForm)
	return &c
}

// Valid reports whether the required fields are present.
func (w *Word) Valid() bool {
	return w != nil && w.ID != "" &&
		strings.TrimSpace(w.Headword) != "" &&
		strings.TrimSpace(w.Translation) != ""
}

// Optional returns a pointer to the trimmed s, or nil when s is blank.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed value or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// SortByHeadword sorts words in French dictionary order of their headword.
// Equal headwords are ordered by id.
func SortByHeadword(words []*Word) {
	c := fold.NewCollator()
	sort.SliceStable(words, func(i, j int) bool {
		if r := c.Compare(words[i].Headword, words[j].Headword); r != 0 {
			return r < 0
		}
		return words[i].ID < words[j].ID
	})
}

// Dedup keeps one word per id. A later word replaces an earlier one in place,
// so the first occurrence keeps its position.
func Dedup(words []*Word) []*Word {
	index := make(map[string]int, len(words))
	out := make([]*Word, 0, len(words))
	for _, w := range words {
		if i, ok := index[w.ID]; ok {
			out[i] = w
			continue
		}
		index[w.ID] = len(out)
		out = append(out, w)
	}
	return out
}
