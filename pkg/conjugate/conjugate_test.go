package conjugate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConjugate(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		verb     string
		tense    Tense
		expected []string
	}{
		"er present": {
			verb:  "parler",
			tense: Present,
			expected: []string{
				"je parle", "tu parles", "il/elle parle",
				"nous parlons", "vous parlez", "ils/elles parlent",
			},
		},
		"ir present": {
			verb:  "finir",
			tense: Present,
			expected: []string{
				"je finis", "tu finis", "il/elle finit",
				"nous finissons", "vous finissez", "ils/elles finissent",
			},
		},
		"re present": {
			verb:  "vendre",
			tense: Present,
			expected: []string{
				"je vends", "tu vends", "il/elle vend",
				"nous vendons", "vous vendez", "ils/elles vendent",
			},
		},
		"elision": {
			verb:  "aimer",
			tense: Imperfect,
			expected: []string{
				"j'aimais", "tu aimais", "il/elle aimait",
				"nous aimions", "vous aimiez", "ils/elles aimaient",
			},
		},
		"ir imperfect": {
			verb:  "finir",
			tense: Imperfect,
			expected: []string{
				"je finissais", "tu finissais", "il/elle finissait",
				"nous finissions", "vous finissiez", "ils/elles finissaient",
			},
		},
		"re future": {
			verb:  "vendre",
			tense: Future,
			expected: []string{
				"je vendrai", "tu vendras", "il/elle vendra",
				"nous vendrons", "vous vendrez", "ils/elles vendront",
			},
		},
		"ir conditional": {
			verb:  "finir",
			tense: Conditional,
			expected: []string{
				"je finirais", "tu finirais", "il/elle finirait",
				"nous finirions", "vous finiriez", "ils/elles finiraient",
			},
		},
		"passe compose": {
			verb:  "marcher",
			tense: PasseCompose,
			expected: []string{
				"j'ai marché", "tu as marché", "il/elle a marché",
				"nous avons marché", "vous avez marché", "ils/elles ont marché",
			},
		},
		"re participle": {
			verb:  "vendre",
			tense: PasseCompose,
			expected: []string{
				"j'ai vendu", "tu as vendu", "il/elle a vendu",
				"nous avons vendu", "vous avez vendu", "ils/elles ont vendu",
			},
		},
		"subjunctive": {
			verb:  "habiter",
			tense: Subjunctive,
			expected: []string{
				"que j'habite", "que tu habites", "qu'il/elle habite",
				"que nous habitions", "que vous habitiez", "qu'ils/elles habitent",
			},
		},
		"translation with alternatives": {
			verb:  " Marcher, aller",
			tense: Future,
			expected: []string{
				"je marcherai", "tu marcheras", "il/elle marchera",
				"nous marcherons", "vous marcherez", "ils/elles marcheront",
			},
		},
	}
	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Conjugate(test.verb, test.tense)
			require.NoError(t, err)
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("Conjugate(%q, %q) (-want, +got):\n%s", test.verb, test.tense, diff)
			}
		})
	}
}

func TestConjugateErrors(t *testing.T) {
	t.Parallel()
	_, err := Conjugate("maison", Present)
	assert.True(t, errors.Is(err, ErrUnsupported))
	_, err = Conjugate("", Present)
	assert.True(t, errors.Is(err, ErrUnsupported))
	_, err = Conjugate("parler", Tense("passé simple"))
	assert.True(t, errors.Is(err, ErrUnknownTense))
}

func TestParseTense(t *testing.T) {
	t.Parallel()
	for _, tense := range Tenses() {
		got, err := ParseTense(" " + string(tense))
		require.NoError(t, err)
		assert.Equal(t, tense, got)
	}
	got, err := ParseTense("Présent")
	require.NoError(t, err)
	assert.Equal(t, Present, got)
	_, err = ParseTense("plus-que-parfait")
	assert.True(t, errors.Is(err, ErrUnknownTense))
}
