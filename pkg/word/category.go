package word

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var ErrDuplicateCategory = errors.New("duplicate category id")

// Category is a node of the part of speech classification.
type Category struct {
	ID            string      `yaml:"id" json:"id"`
	Name          string      `yaml:"name" json:"name"`
	Subcategories []*Category `yaml:"subcategories,omitempty" json:"subcategories,omitempty"`
}

// Tree is an ordered forest of categories. It is built once and never mutated.
type Tree struct {
	Roots []*Category `yaml:"categories" json:"categories"`

	index map[string]*Category
}

// NewTree indexes roots and checks that every id is unique.
func NewTree(roots []*Category) (*Tree, error) {
	t := &Tree{Roots: roots}
	if err := t.build(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTree reads a YAML document of the form
//
//	categories:
//	  - id: noun
//	    name: Nom
//	    subcategories:
//	      - id: nom propre
//	        name: Nom propre
func LoadTree(r io.Reader) (*Tree, error) {
	var t Tree
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("can not decode categories: %w", err)
	}
	if err := t.build(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tree) build() error {
	t.index = make(map[string]*Category)
	var err error
	t.Walk(func(c *Category, _ int) bool {
		if _, ok := t.index[c.ID]; ok {
			err = fmt.Errorf("%w: %q", ErrDuplicateCategory, c.ID)
			return false
		}
		t.index[c.ID] = c
		return true
	})
	return err
}

// Walk visits every category depth first, in order. Returning false stops the walk.
func (t *Tree) Walk(fn func(c *Category, depth int) bool) {
	if t == nil {
		return
	}
	var walk func(cs []*Category, depth int) bool
	walk = func(cs []*Category, depth int) bool {
		for _, c := range cs {
			if !fn(c, depth) {
				return false
			}
			if !walk(c.Subcategories, depth+1) {
				return false
			}
		}
		return true
	}
	walk(t.Roots, 0)
}

// Find returns the category with the given id or nil.
func (t *Tree) Find(id string) *Category {
	if t == nil {
		return nil
	}
	return t.index[id]
}

// Name returns the display name of id, or id itself when unknown.
func (t *Tree) Name(id string) string {
	if c := t.Find(id); c != nil && c.Name != "" {
		return c.Name
	}
	return id
}

// Expand returns id followed by the ids of all its descendants. An unknown id
// expands to itself, so words tagged with categories missing from the tree can
// still be filtered.
func (t *Tree) Expand(id string) []string {
	ids := []string{id}
	c := t.Find(id)
	if c == nil {
		return ids
	}
	var collect func(cs []*Category)
	collect = func(cs []*Category) {
		for _, sub := range cs {
			ids = append(ids, sub.ID)
			collect(sub.Subcategories)
		}
	}
	collect(c.Subcategories)
	return ids
}

// DefaultTree returns the categories used by the dictionary.
func DefaultTree() *Tree {
	t, err := NewTree([]*Category{
		{ID: "noun", Name: "Nom", Subcategories: []*Category{
			{ID: "nom composé", Name: "Nom composé"},
			{ID: "nom propre", Name: "Nom propre"},
		}},
		{ID: "verb", Name: "Verbe"},
		{ID: "adjective", Name: "Adjectif", Subcategories: []*Category{
			{ID: "adjectif possessif", Name: "Adjectif possessif"},
			{ID: "adjectif démonstratif", Name: "Adjectif démonstratif"},
			{ID: "adjectif numéral", Name: "Adjectif numéral"},
		}},
		{ID: "adverb", Name: "Adverbe", Subcategories: []*Category{
			{ID: "adverbe interrogatif", Name: "Adverbe interrogatif"},
			{ID: "locution adverbiale", Name: "Locution adverbiale"},
		}},
		{ID: "pronoun", Name: "Pronom", Subcategories: []*Category{
			{ID: "pronom démonstratif", Name: "Pronom démonstratif"},
			{ID: "pronom indéfini", Name: "Pronom indéfini"},
			{ID: "pronom interrogatif", Name: "Pronom interrogatif"},
			{ID: "pronom personnel", Name: "Pronom personnel"},
			{ID: "pronom possessif", Name: "Pronom possessif"},
		}},
		{ID: "preposition", Name: "Préposition", Subcategories: []*Category{
			{ID: "locution prépositive", Name: "Locution prépositive"},
		}},
		{ID: "conjunction", Name: "Conjonction", Subcategories: []*Category{
			{ID: "locution conjonctive", Name: "Locution conjonctive"},
		}},
		{ID: "interjection", Name: "Interjection", Subcategories: []*Category{
			{ID: "onomatopée", Name: "Onomatopée"},
		}},
		{ID: "particule", Name: "Particule"},
	})
	if err != nil {
		panic(err)
	}
	return t
}
