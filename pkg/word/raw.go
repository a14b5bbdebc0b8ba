package word

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString decodes from either a JSON string or a JSON number. Bulk files
// exported from spreadsheets carry numeric ids.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// RawWord is a word as stored in the bulk file and in the remote words table.
type RawWord struct {
	ID               FlexString `json:"id"`
	NzebiWord        string     `json:"nzebi_word"`
	FrenchWord       string     `json:"french_word"`
	PartOfSpeech     string     `json:"part_of_speech"`
	ExampleNzebi     *string    `json:"example_nzebi"`
	ExampleFrench    *string    `json:"example_french"`
	PronunciationURL *string    `json:"pronunciation_url"`
	IsVerb           Bool       `json:"is_verb"`
	PluralForm       *string    `json:"plural_form"`
	Synonyms         *string    `json:"synonyms"`
	ScientificName   *string    `json:"scientific_name"`
	Imperative       *string    `json:"imperative"`
}

// Word converts the raw record into a Word. Blank optional fields become nil.
// It returns false when a required field is missing.
func (r *RawWord) Word() (*Word, bool) {
	w := &Word{
		ID:                 string(r.ID),
		Headword:           strings.TrimSpace(r.NzebiWord),
		Translation:        strings.TrimSpace(r.FrenchWord),
		PartOfSpeech:       strings.TrimSpace(r.PartOfSpeech),
		ExampleSource:      Optional(Deref(r.ExampleNzebi)),
		ExampleTranslation: Optional(Deref(r.ExampleFrench)),
		PronunciationURL:   Optional(Deref(r.PronunciationURL)),
		IsVerb:             r.IsVerb,
		PluralForm:         Optional(Deref(r.PluralForm)),
		Synonyms:           Optional(Deref(r.Synonyms)),
		ScientificName:     Optional(Deref(r.ScientificName)),
		ImperativeForm:     Optional(Deref(r.Imperative)),
	}
	return w, w.Valid()
}

// FromWord converts a Word into its raw column form.
func FromWord(w *Word) RawWord {
	return RawWord{
		ID:               FlexString(w.ID),
		NzebiWord:        w.Headword,
		FrenchWord:       w.Translation,
		PartOfSpeech:     w.PartOfSpeech,
		ExampleNzebi:     cloneString(w.ExampleSource),
		ExampleFrench:    cloneString(w.ExampleTranslation),
		PronunciationURL: cloneString(w.PronunciationURL),
		IsVerb:           w.IsVerb,
		PluralForm:       cloneString(w.PluralForm),
		Synonyms:         cloneString(w.Synonyms),
		ScientificName:   cloneString(w.ScientificName),
		Imperative:       cloneString(w.ImperativeForm),
	}
}

// DecodeRaw decodes a JSON array of raw words and converts the valid ones.
// The second return value counts the records that were skipped.
func DecodeRaw(data []byte) ([]*Word, int, error) {
	var raws []RawWord
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, 0, fmt.Errorf("can not decode word list: %w", err)
	}
	words, skipped := ConvertRaw(raws)
	return words, skipped, nil
}

// ConvertRaw converts raw records, skipping the invalid ones.
func ConvertRaw(raws []RawWord) ([]*Word, int) {
	words := make([]*Word, 0, len(raws))
	skipped := 0
	for i := range raws {
		w, ok := raws[i].Word()
		if !ok {
			skipped++
			continue
		}
		words = append(words, w)
	}
	return words, skipped
}
