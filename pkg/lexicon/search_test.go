package lexicon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzebi/dico/pkg/fold"
	"github.com/nzebi/dico/pkg/word"
)

func testWords() []*word.Word {
	return []*word.Word{
		{ID: "1", Headword: "mwana", Translation: "enfant", PartOfSpeech: "noun"},
		{ID: "2", Headword: "Ndzébi", Translation: "langue nzébi", PartOfSpeech: "proper_noun"},
		{ID: "3", Headword: "dzenga", Translation: "marcher", PartOfSpeech: "verb"},
		{ID: "4", Headword: "bolo", Translation: "école", PartOfSpeech: "noun"},
		{ID: "5", Headword: "mbwa", Translation: "chien", PartOfSpeech: "animal"},
	}
}

func testTree(t *testing.T) *word.Tree {
	t.Helper()
	tree, err := word.NewTree([]*word.Category{
		{ID: "noun", Name: "Nom", Subcategories: []*word.Category{
			{ID: "proper_noun", Name: "Nom propre"},
			{ID: "animal", Name: "Animal", Subcategories: []*word.Category{
				{ID: "bird", Name: "Oiseau"},
			}},
		}},
		{ID: "verb", Name: "Verbe"},
	})
	require.NoError(t, err)
	return tree
}

func searchIDs(words []*word.Word) []string {
	ids := []string{}
	for _, w := range words {
		ids = append(ids, w.ID)
	}
	return ids
}

func TestSearch(t *testing.T) {
	tree := testTree(t)
	tests := map[string]struct {
		query    string
		category string
		expected []string
	}{
		"empty query":         {query: "", expected: []string{"1", "2", "3", "4", "5"}},
		"whitespace query":    {query: "   ", expected: []string{"1", "2", "3", "4", "5"}},
		"translation":         {query: "enfant", expected: []string{"1"}},
		"headword case":       {query: "MWANA", expected: []string{"1"}},
		"accents ignored":     {query: "ndzebi", expected: []string{"2"}},
		"accent in query":     {query: "ÉCOLE", expected: []string{"4"}},
		"substring":           {query: "zé", expected: []string{"2", "3"}},
		"no match":            {query: "maison", expected: []string{}},
		"category expanded":   {category: "noun", expected: []string{"1", "2", "4", "5"}},
		"leaf category":       {category: "verb", expected: []string{"3"}},
		"unknown category":    {category: "adverb", expected: []string{}},
		"both filters":        {query: "n", category: "proper_noun", expected: []string{"2"}},
		"filters are and-ed":  {query: "marcher", category: "noun", expected: []string{}},
		"nested subcategory":  {query: "", category: "animal", expected: []string{"5"}},
		"word in unknown pos": {query: "chien", expected: []string{"5"}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := Search(testWords(), test.query, test.category, tree)
			if diff := cmp.Diff(test.expected, searchIDs(got)); diff != "" {
				t.Errorf("Search(%q, %q) (-want, +got):\n%s", test.query, test.category, diff)
			}
		})
	}
}

func TestSearchMatchesOnlyContaining(t *testing.T) {
	words := testWords()
	for _, q := range []string{"a", "N", "é", "en", "zz"} {
		got := Search(words, q, "", nil)
		matched := make(map[string]bool)
		for _, w := range got {
			matched[w.ID] = true
			assert.True(t,
				fold.Contains(w.Headword, q) || fold.Contains(w.Translation, q),
				"%q does not contain %q", w.Headword, q)
		}
		for _, w := range words {
			if !matched[w.ID] {
				assert.False(t, fold.Contains(w.Headword, q) || fold.Contains(w.Translation, q),
					"%q should match %q", w.Headword, q)
			}
		}
	}
}

func TestSearchEmpty(t *testing.T) {
	assert.Empty(t, Search(nil, "a", "noun", nil))
	words := testWords()
	assert.Equal(t, words, Search(words, "", "", nil))
}

func TestCountByCategory(t *testing.T) {
	counts := CountByCategory(testWords(), testTree(t))
	expected := map[string]int{
		"noun":        4,
		"proper_noun": 1,
		"animal":      1,
		"bird":        0,
		"verb":        1,
	}
	assert.Equal(t, expected, counts)
}
