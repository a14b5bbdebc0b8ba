package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBulk = `[
	{"id": "1", "nzebi_word": "mwana", "french_word": "enfant", "part_of_speech": "noun"},
	{"id": "2", "nzebi_word": "dzenga", "french_word": "marcher", "part_of_speech": "verb", "is_verb": true}
]`

type testCLI struct {
	bulk    string
	overlay string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()
	bulk := filepath.Join(dir, "words.json")
	require.NoError(t, os.WriteFile(bulk, []byte(testBulk), 0o600))
	return &testCLI{bulk: bulk, overlay: filepath.Join(dir, "overlay")}
}

func (c *testCLI) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	full := append([]string{"nzebi", "--bulk", c.bulk, "--overlay", c.overlay}, args...)
	err := app.Run(full)
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	cli := newTestCLI(t)
	tests := map[string]struct {
		args     []string
		contains []string
		excludes []string
	}{
		"all": {
			args:     []string{"search"},
			contains: []string{"mwana", "dzenga", "Nom", "Verbe"},
		},
		"query": {
			args:     []string{"search", "ENFANT"},
			contains: []string{"mwana"},
			excludes: []string{"dzenga"},
		},
		"category": {
			args:     []string{"search", "--category", "verb"},
			contains: []string{"dzenga"},
			excludes: []string{"mwana"},
		},
		"paged": {
			args:     []string{"search", "--limit", "1"},
			contains: []string{"dzenga", "1 of 2 shown, use --offset 1"},
		},
		"nothing": {
			args:     []string{"search", "maison"},
			contains: []string{"no words found"},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := cli.run(t, test.args...)
			require.NoError(t, err)
			for _, s := range test.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range test.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestShowCommand(t *testing.T) {
	cli := newTestCLI(t)
	out, err := cli.run(t, "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "dzenga")
	assert.Contains(t, out, "passé composé")
	assert.Contains(t, out, "j'ai marché")

	out, err = cli.run(t, "show", "--tense", "futur", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "je marcherai")
	assert.NotContains(t, out, "passé composé")
	_, err = cli.run(t, "show", "--tense", "aoriste", "2")
	assert.True(t, errors.Is(err, ErrFlagParse))

	_, err = cli.run(t, "show")
	assert.True(t, errors.Is(err, ErrFlagParse))
	_, err = cli.run(t, "show", "42")
	assert.Error(t, err)
}

func TestMutationCommands(t *testing.T) {
	cli := newTestCLI(t)

	out, err := cli.run(t, "add", "--nzebi", "ndzo", "--french", "maison", "--category", "noun")
	require.NoError(t, err)
	match := regexp.MustCompile(`added (\S+)`).FindStringSubmatch(out)
	require.Len(t, match, 2)
	id := match[1]

	out, err = cli.run(t, "search", "maison")
	require.NoError(t, err)
	assert.Contains(t, out, id)

	_, err = cli.run(t, "add", "--nzebi", "ndzo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFlagParse))
	assert.Contains(t, err.Error(), "category_id, french")

	_, err = cli.run(t, "edit", "--french", "fils", "1")
	require.NoError(t, err)
	out, err = cli.run(t, "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "fils")
	assert.Contains(t, out, "mwana")

	_, err = cli.run(t, "delete", "2")
	require.NoError(t, err)
	out, err = cli.run(t, "search")
	require.NoError(t, err)
	assert.NotContains(t, out, "dzenga")
}

func TestFavoriteCommands(t *testing.T) {
	cli := newTestCLI(t)
	out, err := cli.run(t, "favorite", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "added to favorites")

	out, err = cli.run(t, "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "mwana")
	assert.NotContains(t, out, "dzenga")

	out, err = cli.run(t, "favorite", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "removed from favorites")
}

func TestCategoriesCommand(t *testing.T) {
	cli := newTestCLI(t)
	out, err := cli.run(t, "categories")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	var noun string
	for _, line := range lines {
		if strings.HasPrefix(line, "noun ") {
			noun = line
		}
	}
	require.NotEmpty(t, noun)
	assert.Contains(t, noun, "1")
	assert.Contains(t, out, "  nom propre")
}
