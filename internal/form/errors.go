package form

import "fmt"

// SchemaError reports a malformed schema node.
type SchemaError struct {
	Path   string // path of the offending node, as far as it could be derived
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return "malformed schema: " + e.Reason
	}
	return fmt.Sprintf("malformed schema at %q: %s", e.Path, e.Reason)
}

// MissingLanguageError reports a label lookup for a language the label does not define.
type MissingLanguageError struct {
	Field    string
	Language string
}

func (e *MissingLanguageError) Error() string {
	return fmt.Sprintf("field %q has no label in language %q", e.Field, e.Language)
}
