package form

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentic-research/formtab/api"
)

// DefaultLanguage is the implicit language of a schema whose labels are all plain strings.
const DefaultLanguage = "default"

// Schema is a parsed form: its fields flattened in depth-first order and the
// languages its labels are written in.
type Schema struct {
	IDString        string
	Fields          []*Field
	Languages       []string
	DefaultLanguage string

	byPath map[string]*Field
}

// ParseJSON decodes a schema document and parses it.
func ParseJSON(data []byte) (*Schema, error) {
	var doc api.Form
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return Parse(&doc)
}

// Parse flattens a schema document into fields.
//
// Groups are replaced in place by their flattened children, each child's path
// prefixed with the group's name. Notes are dropped. Every other node becomes
// exactly one field.
func Parse(doc *api.Form) (*Schema, error) {
	if doc == nil {
		return nil, &SchemaError{Reason: "no schema document"}
	}
	s := &Schema{
		IDString: doc.IDString,
		byPath:   make(map[string]*Field),
	}
	if err := s.flatten(doc.Children, nil); err != nil {
		return nil, err
	}

	s.Languages = languagesOf(s.Fields)
	s.DefaultLanguage = s.Languages[0]
	for _, lang := range s.Languages {
		if lang == doc.DefaultLanguage {
			s.DefaultLanguage = lang
			break
		}
	}

	for _, f := range s.Fields {
		f.defaultLanguage = s.DefaultLanguage
		for i := range f.choices {
			f.choices[i].defaultLanguage = s.DefaultLanguage
		}
	}
	return s, nil
}

func (s *Schema) flatten(nodes []api.Node, prefix []string) error {
	for _, n := range nodes {
		path := strings.Join(append(prefix[:len(prefix):len(prefix)], n.Name), "/")
		if strings.TrimSpace(n.Type) == "" {
			return &SchemaError{Path: path, Reason: "node has no type"}
		}

		logical := ParseType(n.Type)
		switch logical {
		case Note:
			continue
		case Group:
			if n.Name == "" {
				return &SchemaError{Path: path, Reason: "group has no name"}
			}
			// A group without children is an empty subtree.
			if err := s.flatten(n.Children, append(prefix[:len(prefix):len(prefix)], n.Name)); err != nil {
				return err
			}
			continue
		}

		if n.Name == "" {
			return &SchemaError{Path: path, Reason: "node has no name"}
		}
		if _, dup := s.byPath[path]; dup {
			return &SchemaError{Path: path, Reason: "duplicate path"}
		}

		f := &Field{
			Name:    n.Name,
			Path:    path,
			Type:    n.Type,
			logical: logical,
			label:   n.Label,
		}
		if logical.IsChoice() {
			f.choices = make([]Choice, 0, len(n.Children))
			for _, c := range n.Children {
				f.choices = append(f.choices, Choice{Value: c.Name, label: c.Label})
			}
		}
		s.Fields = append(s.Fields, f)
		s.byPath[path] = f
	}
	return nil
}

// languagesOf collects label languages in first-seen order.
func languagesOf(fields []*Field) []string {
	var langs []string
	seen := make(map[string]bool)
	for _, f := range fields {
		for _, lang := range f.Languages() {
			if !seen[lang] {
				seen[lang] = true
				langs = append(langs, lang)
			}
		}
	}
	if len(langs) == 0 {
		return []string{DefaultLanguage}
	}
	return langs
}

// IsMultiLang reports whether any field has a language-keyed label.
func (s *Schema) IsMultiLang() bool {
	return !(len(s.Languages) == 1 && s.Languages[0] == DefaultLanguage)
}

// Field returns the field at path.
func (s *Schema) Field(path string) (*Field, bool) {
	f, ok := s.byPath[path]
	return f, ok
}

// FieldByName returns the first field whose own name is name.
func (s *Schema) FieldByName(name string) (*Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FieldsOfType returns the fields whose logical type is one of types, in schema order.
func (s *Schema) FieldsOfType(types ...Type) []*Field {
	var out []*Field
	for _, f := range s.Fields {
		if f.Is(types...) {
			out = append(out, f)
		}
	}
	return out
}
