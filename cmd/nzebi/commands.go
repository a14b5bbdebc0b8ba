package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/nzebi/dico/pkg/conjugate"
	"github.com/nzebi/dico/pkg/lexicon"
	"github.com/nzebi/dico/pkg/word"
)

var formFlags = []cli.Flag{
	&cli.StringFlag{Name: "nzebi", Usage: "headword"},
	&cli.StringFlag{Name: "french", Usage: "translation"},
	&cli.StringFlag{Name: "category", Usage: "category id", Aliases: []string{"c"}},
	&cli.StringFlag{Name: "example-nzebi"},
	&cli.StringFlag{Name: "example-french"},
	&cli.StringFlag{Name: "pronunciation-url"},
	&cli.StringFlag{Name: "verb", Usage: "oui or non"},
	&cli.StringFlag{Name: "plural"},
	&cli.StringFlag{Name: "synonyms"},
	&cli.StringFlag{Name: "scientific-name"},
	&cli.StringFlag{Name: "imperative"},
}

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "search words, accents and case are ignored",
	ArgsUsage: "[QUERY]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "keep words of `ID` and its subcategories"},
		&cli.IntFlag{Name: "offset"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20},
	},
	Action: withDictionary(func(ctx context.Context, c *cli.Context, d *dictionary) error {
		query := strings.Join(c.Args().Slice(), " ")
		page := d.Browse(ctx, query, c.String("category"), c.Int("offset"), c.Int("limit"))
		printWords(c.App.Writer, d.Categories(), page.Words)
		if page.HasMore {
			fmt.Fprintf(c.App.Writer, "%d of %d shown, use --offset %d for more\n",
				len(page.Words), page.Total, page.Offset+len(page.Words))
		}
		return nil
	}),
}

var showCommand = &cli.Command{
	Name:      "show",
	Usage:     "show one word with its conjugation",
	ArgsUsage: "ID",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{Name: "tense", Aliases: []string{"t"}, Usage: "only show these tenses"},
	},
	Action: withDictionary(func(ctx context.Context, c *cli.Context, d *dictionary) error {
		id, err := requireID(c)
		if err != nil {
			return err
		}
		tenses, err := parseTenses(c.StringSlice("tense"))
		if err != nil {
			return err
		}
		w, err := d.Get(ctx, id)
		if err != nil {
			return err
		}
		printWord(c.App.Writer, d.Categories(), w, tenses)
		return nil
	}),
}

var categoriesCommand = &cli.Command{
	Name:  "categories",
	Usage: "list categories with their word counts",
	Action: withDictionary(func(ctx context.Context, c *cli.Context, d *dictionary) error {
		counts := d.CategoryCounts(ctx)
		tbl := table.New("ID", "Name", "Words").WithWriter(c.App.Writer)
		d.Categories().Walk(func(cat *word.Category, depth int) bool {
			tbl.AddRow(strings.Repeat("  ", depth)+cat.ID, cat.Name, counts[cat.ID])
			return true
		})
		tbl.Print()
		return nil
	}),
}

var addCommand = &cli.Command{
	Name:  "add",
	Usage: "add a word to the local changes",
	Flags: formFlags,
	Action: withDictionary(func(ctx context.Context, c *cli.Context, d *dictionary) error {
		w, err := d.Add(ctx, formFromFlags(c, ""))
		if err != nil {
			return mutationError(err)
		}
		fmt.Fprintf(c.App.Writer, "added %s\n", w.ID)
		return nil
	}),
}

var editCommand = &cli.Command{
	Name:      "edit",
	Usage:     "replace a word, unset flags keep their current value",
	ArgsUsage: "ID",
	Flags:     formFlags,
	Action: withDictionary(func(ctx context.Context, c *cli.Context, d *dictionary) error {
		id, err := requireID(c)
		if err != nil {
			return err
		}
		current, err := d.Get(ctx, id)
		if err != nil {
			return err
		}
		form := word.FormOf(current)
		mergeFlags(c, &form)
		w, err := d.Edit(ctx, form)
		if err != nil {
			return mutationError(err)
		}
		fmt.Fprintf(c.App.Writer, "edited %s\n", w.ID)
		return nil
	}),
}

var deleteCommand = &cli.Command{
	Name:      "delete",
	Usage:     "delete a word",
	ArgsUsage: "ID",
	Action: withDictionary(func(ctx context.Context, c *cli.Context, d *dictionary) error {
		id, err := requireID(c)
		if err != nil {
			return err
		}
		if _, err := d.Delete(ctx, id); err != nil {
			return mutationError(err)
		}
		fmt.Fprintf(c.App.Writer, "deleted %s\n", id)
		return nil
	}),
}

var favoriteCommand = &cli.Command{
	Name:      "favorite",
	Usage:     "toggle the favorite mark of a word",
	ArgsUsage: "ID",
	Action: withDictionary(func(ctx context.Context, c *cli.Context, d *dictionary) error {
		id, err := requireID(c)
		if err != nil {
			return err
		}
		on, err := d.ToggleFavorite(ctx, id)
		if err != nil {
			return err
		}
		state := "removed from"
		if on {
			state = "added to"
		}
		fmt.Fprintf(c.App.Writer, "%s %s favorites\n", id, state)
		return nil
	}),
}

var favoritesCommand = &cli.Command{
	Name:  "favorites",
	Usage: "list favorite words",
	Action: withDictionary(func(ctx context.Context, c *cli.Context, d *dictionary) error {
		words, err := d.Favorites(ctx)
		if err != nil {
			return err
		}
		printWords(c.App.Writer, d.Categories(), words)
		return nil
	}),
}

func formFromFlags(c *cli.Context, id string) word.FormValues {
	form := word.FormValues{ID: id}
	mergeFlags(c, &form)
	return form
}

// mergeFlags copies the flags that were given into form.
func mergeFlags(c *cli.Context, form *word.FormValues) {
	fields := map[string]*string{
		"nzebi":             &form.Nzebi,
		"french":            &form.French,
		"category":          &form.CategoryID,
		"example-nzebi":     &form.ExampleNzebi,
		"example-french":    &form.ExampleFrench,
		"pronunciation-url": &form.PronunciationURL,
		"plural":            &form.PluralForm,
		"synonyms":          &form.Synonyms,
		"scientific-name":   &form.ScientificName,
		"imperative":        &form.Imperative,
	}
	for name, field := range fields {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}
	if c.IsSet("verb") {
		form.IsVerb = word.ParseBool(c.String("verb"))
	}
}

func mutationError(err error) error {
	var verr *word.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("%w: missing or invalid %s", ErrFlagParse, strings.Join(verr.Fields, ", "))
	}
	if errors.Is(err, lexicon.ErrRemoteWrite) {
		// saved locally
		return nil
	}
	return err
}

// parseTenses defaults to every tense.
func parseTenses(names []string) ([]conjugate.Tense, error) {
	if len(names) == 0 {
		return conjugate.Tenses(), nil
	}
	tenses := make([]conjugate.Tense, 0, len(names))
	for _, name := range names {
		tense, err := conjugate.ParseTense(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFlagParse, err)
		}
		tenses = append(tenses, tense)
	}
	return tenses, nil
}

func printWords(w io.Writer, tree *word.Tree, words []*word.Word) {
	if len(words) == 0 {
		fmt.Fprintln(w, "no words found")
		return
	}
	tbl := table.New("ID", "Nzébi", "Français", "Catégorie").WithWriter(w)
	for _, entry := range words {
		tbl.AddRow(entry.ID, entry.Headword, entry.Translation, tree.Name(entry.PartOfSpeech))
	}
	tbl.Print()
}

func printWord(w io.Writer, tree *word.Tree, entry *word.Word, tenses []conjugate.Tense) {
	tbl := table.New("Field", "Value").WithWriter(w)
	tbl.AddRow("id", entry.ID)
	tbl.AddRow("nzébi", entry.Headword)
	tbl.AddRow("français", entry.Translation)
	tbl.AddRow("catégorie", tree.Name(entry.PartOfSpeech))
	optional := []struct {
		name  string
		value *string
	}{
		{"exemple", entry.ExampleSource},
		{"traduction de l'exemple", entry.ExampleTranslation},
		{"prononciation", entry.PronunciationURL},
		{"pluriel", entry.PluralForm},
		{"synonymes", entry.Synonyms},
		{"nom scientifique", entry.ScientificName},
		{"impératif", entry.ImperativeForm},
	}
	for _, o := range optional {
		if o.value != nil {
			tbl.AddRow(o.name, *o.value)
		}
	}
	tbl.Print()

	if !entry.IsVerb.Value() && entry.PartOfSpeech != "verb" {
		return
	}
	for _, tense := range tenses {
		forms, err := conjugate.Conjugate(entry.Translation, tense)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "\n%s\n", tense)
		for _, f := range forms {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
}
