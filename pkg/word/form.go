package word

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is returned for mutation input that breaks the form rules.
var ErrValidation = errors.New("validation failed")

// ValidationError lists the json names of the offending fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: invalid " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FormValues is the input of the word entry form.
type FormValues struct {
	ID               string `json:"id,omitempty"`
	Nzebi            string `json:"nzebi" validate:"required,notblank"`
	French           string `json:"french" validate:"required,notblank"`
	CategoryID       string `json:"category_id" validate:"required,notblank"`
	ExampleNzebi     string `json:"example_nzebi,omitempty"`
	ExampleFrench    string `json:"example_french,omitempty"`
	PronunciationURL string `json:"pronunciation_url,omitempty" validate:"omitempty,url"`
	IsVerb           Bool   `json:"is_verb,omitempty"`
	PluralForm       string `json:"plural_form,omitempty"`
	Synonyms         string `json:"synonyms,omitempty"`
	ScientificName   string `json:"scientific_name,omitempty"`
	Imperative       string `json:"imperative,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Validate checks the form rules. The error, if any, is a *ValidationError.
func (f *FormValues) Validate() error {
	err := getValidator().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []string{err.Error()}}
	}
	seen := make(map[string]bool)
	var fields []string
	for _, fe := range verrs {
		if !seen[fe.Field()] {
			seen[fe.Field()] = true
			fields = append(fields, fe.Field())
		}
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

// Word builds the record described by the form under the given id.
func (f *FormValues) Word(id string) *Word {
	return &Word{
		ID:                 id,
		Headword:           strings.TrimSpace(f.Nzebi),
		Translation:        strings.TrimSpace(f.French),
		PartOfSpeech:       strings.TrimSpace(f.CategoryID),
		ExampleSource:      Optional(f.ExampleNzebi),
		ExampleTranslation: Optional(f.ExampleFrench),
		PronunciationURL:   Optional(f.PronunciationURL),
		IsVerb:             f.IsVerb,
		PluralForm:         Optional(f.PluralForm),
		Synonyms:           Optional(f.Synonyms),
		ScientificName:     Optional(f.ScientificName),
		ImperativeForm:     Optional(f.Imperative),
	}
}

// FormOf returns the form values that would reproduce w.
func FormOf(w *Word) FormValues {
	return FormValues{
		ID:               w.ID,
		Nzebi:            w.Headword,
		French:           w.Translation,
		CategoryID:       w.PartOfSpeech,
		ExampleNzebi:     Deref(w.ExampleSource),
		ExampleFrench:    Deref(w.ExampleTranslation),
		PronunciationURL: Deref(w.PronunciationURL),
		IsVerb:           w.IsVerb,
		PluralForm:       Deref(w.PluralForm),
		Synonyms:         Deref(w.Synonyms),
		ScientificName:   Deref(w.ScientificName),
		Imperative:       Deref(w.ImperativeForm),
	}
}
