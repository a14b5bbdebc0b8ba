// Package lexicon is the word access layer used by the hosts: a shared cache
// over the source loader, search, pagination and the mutation API.
package lexicon

import (
	"strings"

	"github.com/nzebi/dico/pkg/fold"
	"github.com/nzebi/dico/pkg/word"
)

// Search keeps the words matching both filters, in input order. A blank
// query disables the text filter. Otherwise the query must be a substring
// of the normalized headword or translation. A non-empty categoryID keeps
// words whose part of speech is the category or one of its descendants.
func Search(words []*word.Word, query, categoryID string, tree *word.Tree) []*word.Word {
	needle := ""
	if strings.TrimSpace(query) != "" {
		needle = fold.Normalize(query)
	}
	var categories map[string]struct{}
	if categoryID != "" {
		expanded := tree.Expand(categoryID)
		categories = make(map[string]struct{}, len(expanded))
		for _, id := range expanded {
			categories[id] = struct{}{}
		}
	}

	result := make([]*word.Word, 0, len(words))
	for _, w := range words {
		if categories != nil {
			if _, ok := categories[w.PartOfSpeech]; !ok {
				continue
			}
		}
		if needle != "" &&
			!strings.Contains(fold.Normalize(w.Headword), needle) &&
			!strings.Contains(fold.Normalize(w.Translation), needle) {
			continue
		}
		result = append(result, w)
	}
	return result
}

// CountByCategory returns, for every category of the tree, how many words
// belong to it or to one of its descendants.
func CountByCategory(words []*word.Word, tree *word.Tree) map[string]int {
	perPOS := make(map[string]int)
	for _, w := range words {
		perPOS[w.PartOfSpeech]++
	}
	counts := make(map[string]int)
	tree.Walk(func(c *word.Category, _ int) bool {
		n := 0
		for _, id := range tree.Expand(c.ID) {
			n += perPOS[id]
		}
		counts[c.ID] = n
		return true
	})
	return counts
}
