// Package conjugate produces simplified French conjugation tables for regular
// -er, -ir and -re verbs, shown next to verb translations.
package conjugate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported is returned for verbs without a regular ending.
	ErrUnsupported  = errors.New("unsupported verb")
	ErrUnknownTense = errors.New("unknown tense")
)

type Tense string

const (
	Present      Tense = "présent"
	Imperfect    Tense = "imparfait"
	Future       Tense = "futur"
	PasseCompose Tense = "passé composé"
	Conditional  Tense = "conditionnel"
	Subjunctive  Tense = "subjonctif"
)

// Tenses lists the supported tenses in display order.
func Tenses() []Tense {
	return []Tense{Present, Imperfect, Future, PasseCompose, Conditional, Subjunctive}
}

// ParseTense matches a tense name case-insensitively.
func ParseTense(s string) (Tense, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tenses() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTense, s)
}

type group int

const (
	groupER group = iota
	groupIR
	groupRE
)

var (
	subjects            = [6]string{"je", "tu", "il/elle", "nous", "vous", "ils/elles"}
	subjunctiveSubjects = [6]string{"que je", "que tu", "qu'il/elle", "que nous", "que vous", "qu'ils/elles"}
	avoir               = [6]string{"ai", "as", "a", "avons", "avez", "ont"}
)

var endings = map[Tense]map[group][6]string{
	Present: {
		groupER: {"e", "es", "e", "ons", "ez", "ent"},
		groupIR: {"is", "is", "it", "issons", "issez", "issent"},
		groupRE: {"s", "s", "", "ons", "ez", "ent"},
	},
	Imperfect: {
		groupER: {"ais", "ais", "ait", "ions", "iez", "aient"},
		groupIR: {"issais", "issais", "issait", "issions", "issiez", "issaient"},
		groupRE: {"ais", "ais", "ait", "ions", "iez", "aient"},
	},
	Subjunctive: {
		groupER: {"e", "es", "e", "ions", "iez", "ent"},
		groupIR: {"isse", "isses", "isse", "issions", "issiez", "issent"},
		groupRE: {"e", "es", "e", "ions", "iez", "ent"},
	},
}

var (
	futureEndings      = [6]string{"ai", "as", "a", "ons", "ez", "ont"}
	conditionalEndings = [6]string{"ais", "ais", "ait", "ions", "iez", "aient"}
)

// Conjugate returns the six persons of verb in the given tense, for example
// "je parle" ... "ils/elles parlent". Only the first word of verb is used,
// so a translation like "marcher, aller" conjugates "marcher".
func Conjugate(verb string, tense Tense) ([]string, error) {
	verb = infinitive(verb)
	g, stem, err := classify(verb)
	if err != nil {
		return nil, err
	}
	var forms [6]string
	switch tense {
	case Present, Imperfect, Subjunctive:
		e := endings[tense][g]
		for i := range forms {
			forms[i] = stem + e[i]
		}
	case Future, Conditional:
		// the future stem is the infinitive, without the final e for -re
		futureStem := strings.TrimSuffix(verb, "e")
		e := futureEndings
		if tense == Conditional {
			e = conditionalEndings
		}
		for i := range forms {
			forms[i] = futureStem + e[i]
		}
	case PasseCompose:
		p := participle(g, stem)
		for i := range forms {
			forms[i] = avoir[i] + " " + p
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTense, string(tense))
	}

	subj := subjects
	if tense == Subjunctive {
		subj = subjunctiveSubjects
	}
	table := make([]string, len(forms))
	for i, f := range forms {
		table[i] = withSubject(subj[i], f)
	}
	return table, nil
}

func infinitive(verb string) string {
	verb = strings.ToLower(strings.TrimSpace(verb))
	if i := strings.IndexAny(verb, " ,;/("); i >= 0 {
		verb = verb[:i]
	}
	return verb
}

func classify(verb string) (group, string, error) {
	// shortest real verbs have a one letter stem
	if len(verb) < 3 {
		return 0, "", fmt.Errorf("%w: %q", ErrUnsupported, verb)
	}
	stem := verb[:len(verb)-2]
	switch {
	case strings.HasSuffix(verb, "er"):
		return groupER, stem, nil
	case strings.HasSuffix(verb, "ir"):
		return groupIR, stem, nil
	case strings.HasSuffix(verb, "re"):
		return groupRE, stem, nil
	default:
		return 0, "", fmt.Errorf("%w: %q", ErrUnsupported, verb)
	}
}

func participle(g group, stem string) string {
	switch g {
	case groupER:
		return stem + "é"
	case groupIR:
		return stem + "i"
	default:
		return stem + "u"
	}
}

// withSubject joins subject and form, eliding "je" before a vowel or a mute h.
func withSubject(subject, form string) string {
	if strings.HasSuffix(subject, "je") && startsWithVowel(form) {
		return subject[:len(subject)-1] + "'" + form
	}
	return subject + " " + form
}

func startsWithVowel(s string) bool {
	for _, r := range s {
		return strings.ContainsRune("aeiouyhéèêàâîôû", r)
	}
	return false
}
