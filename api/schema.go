package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Form represents the root of a form schema document.
// It is the JSON shape served by the form server's form.json endpoint.
type Form struct {
	// IDString is the form's unique identifier.
	IDString string `json:"id_string"`
	// Name of the form (usually the XForm instance name).
	Name string `json:"name,omitempty"`
	// Title shown to data collectors.
	Title string `json:"title,omitempty"`
	// Type is "survey" for top-level documents.
	Type string `json:"type,omitempty"`
	// DefaultLanguage is the language used when none is requested.
	DefaultLanguage string `json:"default_language,omitempty"`
	// Children are the top-level questions and groups.
	Children []Node `json:"children,omitempty"`
}

// Node represents a single schema element: a question, a group, a note,
// or a choice of a select question.
type Node struct {
	// Name of the element. Groups contribute their name to descendant paths.
	Name string `json:"name"`
	// Type is the literal type string (e.g. "select one", "integer", "group").
	Type string `json:"type,omitempty"`
	// Label is either a plain string or a language → string mapping.
	Label *Label `json:"label,omitempty"`
	// Children of a group, or choices of a select question.
	Children []Node `json:"children,omitempty"`
	// Hint shown below the question (optional, same shape as Label).
	Hint *Label `json:"hint,omitempty"`
}

// Label is a display string that is either plain or keyed by language.
// Language keys keep the order they had in the document.
type Label struct {
	Text         string
	Translations *orderedmap.OrderedMap[string, string]
}

// PlainLabel returns a single-language label.
func PlainLabel(s string) *Label {
	return &Label{Text: s}
}

// LangLabel returns a multi-language label from alternating language, text pairs.
func LangLabel(pairs ...string) *Label {
	m := orderedmap.New[string, string]()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return &Label{Translations: m}
}

// IsMultiLang reports whether the label is keyed by language.
func (l *Label) IsMultiLang() bool {
	return l != nil && l.Translations != nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &l.Text)
	case '{':
		m := orderedmap.New[string, string]()
		if err := json.Unmarshal(data, m); err != nil {
			return fmt.Errorf("label translations: %w", err)
		}
		l.Translations = m
		return nil
	default:
		return fmt.Errorf("label must be a string or an object, got %s", data)
	}
}

// MarshalJSON implements json.Marshaler.
func (l *Label) MarshalJSON() ([]byte, error) {
	if l.Translations != nil {
		return json.Marshal(l.Translations)
	}
	return json.Marshal(l.Text)
}
