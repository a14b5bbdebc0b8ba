package fold

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders strings with French collation rules.
// A Collator is not safe for concurrent use.
type Collator struct {
	c *collate.Collator
}

func NewCollator() *Collator {
	return &Collator{c: collate.New(language.French)}
}

// Compare returns an integer comparing a and b in French dictionary order.
func (c *Collator) Compare(a, b string) int {
	return c.c.CompareString(a, b)
}
