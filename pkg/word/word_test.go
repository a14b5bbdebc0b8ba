package word

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolUnmarshal(t *testing.T) {
	testCases := map[string]struct {
		input    string
		expected Bool
		err      bool
	}{
		"null":            {input: `null`, expected: Unset},
		"json true":       {input: `true`, expected: True},
		"json false":      {input: `false`, expected: False},
		"french oui":      {input: `"Oui"`, expected: True},
		"french vrai":     {input: `" VRAI "`, expected: True},
		"english true":    {input: `"true"`, expected: True},
		"french non":      {input: `"non"`, expected: False},
		"empty string":    {input: `""`, expected: Unset},
		"blank string":    {input: `"   "`, expected: Unset},
		"number one":      {input: `1`, expected: True},
		"number zero":     {input: `0`, expected: False},
		"unsupported obj": {input: `{}`, err: true},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			var b Bool
			err := json.Unmarshal([]byte(tc.input), &b)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, b)
		})
	}
}

func TestBoolMarshal(t *testing.T) {
	type holder struct {
		B Bool `json:"b,omitempty"`
	}
	data, err := json.Marshal(holder{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	data, err = json.Marshal(holder{B: False})
	require.NoError(t, err)
	assert.Equal(t, `{"b":false}`, string(data))

	data, err = json.Marshal(True)
	require.NoError(t, err)
	assert.Equal(t, `true`, string(data))
}

func TestRawWordConversion(t *testing.T) {
	input := `[
		{"id": 1, "nzebi_word": " mwana ", "french_word": "enfant", "part_of_speech": "noun",
		 "example_nzebi": "", "example_french": null, "is_verb": "non", "plural_form": "bana"},
		{"id": "2", "nzebi_word": "dzenga", "french_word": "marcher", "part_of_speech": "verb",
		 "is_verb": "Oui", "imperative": "dzenga!", "pronunciation_url": "https://example.org/dzenga.mp3"},
		{"id": "3", "nzebi_word": "", "french_word": "vide", "part_of_speech": "noun"},
		{"nzebi_word": "sans", "french_word": "identifiant"}
	]`
	words, skipped, err := DecodeRaw([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, words, 2)

	first := words[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "mwana", first.Headword)
	assert.Nil(t, first.ExampleSource)
	assert.Nil(t, first.ExampleTranslation)
	assert.Equal(t, False, first.IsVerb)
	assert.Equal(t, "bana", Deref(first.PluralForm))

	second := words[1]
	assert.Equal(t, True, second.IsVerb)
	assert.Equal(t, "dzenga!", Deref(second.ImperativeForm))
	assert.Equal(t, "https://example.org/dzenga.mp3", Deref(second.PronunciationURL))
	assert.Nil(t, second.Synonyms)
}

func TestDecodeRawMalformed(t *testing.T) {
	_, _, err := DecodeRaw([]byte(`{,}`))
	assert.Error(t, err)
}

func TestFromWordRoundTrip(t *testing.T) {
	w := &Word{
		ID:            "7",
		Headword:      "ndzo",
		Translation:   "maison",
		PartOfSpeech:  "noun",
		ExampleSource: Optional("ndzo yami"),
		IsVerb:        False,
	}
	raw := FromWord(w)
	back, ok := raw.Word()
	require.True(t, ok)
	assert.Equal(t, w, back)
}

func TestClone(t *testing.T) {
	w := &Word{ID: "1", Headword: "a", Translation: "b", Synonyms: Optional("c")}
	c := w.Clone()
	*c.Synonyms = "changed"
	assert.Equal(t, "c", *w.Synonyms)
	assert.Nil(t, (*Word)(nil).Clone())
}

func TestDedupLastWins(t *testing.T) {
	words := []*Word{
		{ID: "1", Headword: "old"},
		{ID: "2", Headword: "two"},
		{ID: "1", Headword: "new"},
	}
	out := Dedup(words)
	require.Len(t, out, 2)
	assert.Equal(t, "new", out[0].Headword)
	assert.Equal(t, "two", out[1].Headword)
}

func TestSortByHeadword(t *testing.T) {
	words := []*Word{
		{ID: "3", Headword: "zèbre"},
		{ID: "2", Headword: "école"},
		{ID: "1", Headword: "Abeille"},
		{ID: "0", Headword: "école"},
	}
	SortByHeadword(words)
	var ids []string
	for _, w := range words {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"1", "0", "2", "3"}, ids)
}
