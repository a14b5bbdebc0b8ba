package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	words := testWords()
	tests := map[string]struct {
		offset, limit int
		expected      []string
		hasMore       bool
		offsetOut     int
	}{
		"first page":      {offset: 0, limit: 2, expected: []string{"1", "2"}, hasMore: true},
		"middle page":     {offset: 2, limit: 2, expected: []string{"3", "4"}, hasMore: true, offsetOut: 2},
		"last page":       {offset: 4, limit: 2, expected: []string{"5"}, offsetOut: 4},
		"exact end":       {offset: 3, limit: 2, expected: []string{"4", "5"}, offsetOut: 3},
		"past end":        {offset: 10, limit: 2, expected: []string{}, offsetOut: 5},
		"negative offset": {offset: -3, limit: 1, expected: []string{"1"}, hasMore: true},
		"no limit":        {offset: 1, limit: 0, expected: []string{"2", "3", "4", "5"}, offsetOut: 1},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			page := Paginate(words, test.offset, test.limit)
			assert.Equal(t, test.expected, searchIDs(page.Words))
			assert.Equal(t, test.hasMore, page.HasMore)
			assert.Equal(t, len(words), page.Total)
			assert.Equal(t, test.offsetOut, page.Offset)
			assert.Equal(t, test.limit, page.Limit)
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate(nil, 0, 10)
	assert.NotNil(t, page.Words)
	assert.Empty(t, page.Words)
	assert.False(t, page.HasMore)
	assert.Zero(t, page.Total)
}
