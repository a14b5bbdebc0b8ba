package word

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCategories = `
categories:
  - id: noun
    name: Nom
    subcategories:
      - id: proper_noun
        name: Nom propre
        subcategories:
          - id: place_name
            name: Toponyme
  - id: verb
    name: Verbe
`

func TestLoadTree(t *testing.T) {
	tree, err := LoadTree(strings.NewReader(testCategories))
	require.NoError(t, err)
	require.Len(t, tree.Roots, 2)

	assert.Equal(t, []string{"noun", "proper_noun", "place_name"}, tree.Expand("noun"))
	assert.Equal(t, []string{"proper_noun", "place_name"}, tree.Expand("proper_noun"))
	assert.Equal(t, []string{"verb"}, tree.Expand("verb"))
	assert.Equal(t, []string{"unknown"}, tree.Expand("unknown"))

	assert.Equal(t, "Nom propre", tree.Name("proper_noun"))
	assert.Equal(t, "mystery", tree.Name("mystery"))
	assert.Nil(t, tree.Find("mystery"))
}

func TestLoadTreeDuplicate(t *testing.T) {
	_, err := LoadTree(strings.NewReader(`
categories:
  - id: noun
    subcategories:
      - id: noun
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateCategory))
}

func TestLoadTreeMalformed(t *testing.T) {
	_, err := LoadTree(strings.NewReader("categories: [\n"))
	assert.Error(t, err)
}

func TestTreeWalkDepth(t *testing.T) {
	tree, err := LoadTree(strings.NewReader(testCategories))
	require.NoError(t, err)
	depths := map[string]int{}
	tree.Walk(func(c *Category, depth int) bool {
		depths[c.ID] = depth
		return true
	})
	assert.Equal(t, map[string]int{"noun": 0, "proper_noun": 1, "place_name": 2, "verb": 0}, depths)
}

func TestDefaultTree(t *testing.T) {
	tree := DefaultTree()
	assert.Contains(t, tree.Expand("noun"), "nom propre")
	assert.Equal(t, "Verbe", tree.Name("verb"))
	var nilTree *Tree
	assert.Equal(t, "noun", nilTree.Name("noun"))
}
