package form

import (
	"strings"

	"github.com/agentic-research/formtab/api"
)

// Field is one flattened question of a form.
// Fields are read-only once parsed and may be shared between tables and resolvers.
type Field struct {
	Name string // the node's own name
	Path string // ancestor group names and Name joined by "/"
	Type string // declared type, as spelled in the schema

	logical         Type
	label           *api.Label
	choices         []Choice
	defaultLanguage string
}

// Choice is one option of a select question.
// Value is the literal stored in submission records when the option is picked.
type Choice struct {
	Value string

	label           *api.Label
	defaultLanguage string
}

// NewField builds a field outside of Parse, e.g. for a hand-assembled field list.
func NewField(name, path, typ string, label *api.Label, choices ...Choice) *Field {
	return &Field{
		Name:    name,
		Path:    path,
		Type:    typ,
		logical: ParseType(typ),
		label:   label,
		choices: choices,
	}
}

// NewChoice builds a choice with the given stored value and label.
func NewChoice(value string, label *api.Label) Choice {
	return Choice{Value: value, label: label}
}

// Logical returns the field's logical type.
func (f *Field) Logical() Type {
	return f.logical
}

// Is reports whether the field's logical type is one of types.
func (f *Field) Is(types ...Type) bool {
	for _, t := range types {
		if f.logical == t {
			return true
		}
	}
	return false
}

// IsOfType reports whether the declared type string is one of the given
// spellings, ignoring case.
func (f *Field) IsOfType(types ...string) bool {
	declared := strings.ToLower(f.Type)
	for _, t := range types {
		if strings.ToLower(t) == declared {
			return true
		}
	}
	return false
}

// Label returns the field's display label.
//
// A plain label is returned whatever the language. For a multi-language label
// an empty language selects the schema's default language when the label
// defines it, and otherwise the first language in document order.
// A field without a label is labelled by its name.
func (f *Field) Label(language string) (string, error) {
	return resolve(f.label, f.Name, f.Path, language, f.defaultLanguage)
}

// Languages returns the languages of the field's label, in document order.
// A plain label has none.
func (f *Field) Languages() []string {
	if !f.label.IsMultiLang() {
		return nil
	}
	langs := make([]string, 0, f.label.Translations.Len())
	for p := f.label.Translations.Oldest(); p != nil; p = p.Next() {
		langs = append(langs, p.Key)
	}
	return langs
}

// Choices returns the options of a select question in schema order.
// Other fields have none.
func (f *Field) Choices() []Choice {
	if !f.logical.IsChoice() {
		return nil
	}
	return f.choices
}

// Choice returns the option whose stored value is value.
func (f *Field) Choice(value string) (Choice, bool) {
	for _, c := range f.Choices() {
		if c.Value == value {
			return c, true
		}
	}
	return Choice{}, false
}

// Label returns the choice's display label, with the same language rules as Field.Label.
func (c Choice) Label(language string) (string, error) {
	return resolve(c.label, c.Value, c.Value, language, c.defaultLanguage)
}

func resolve(l *api.Label, name, owner, language, defaultLanguage string) (string, error) {
	switch {
	case l == nil:
		return name, nil
	case !l.IsMultiLang():
		return l.Text, nil
	}

	if language != "" {
		s, ok := l.Translations.Get(language)
		if !ok {
			return "", &MissingLanguageError{Field: owner, Language: language}
		}
		return s, nil
	}
	if defaultLanguage != "" {
		if s, ok := l.Translations.Get(defaultLanguage); ok {
			return s, nil
		}
	}
	if first := l.Translations.Oldest(); first != nil {
		return first.Value, nil
	}
	return name, nil
}
