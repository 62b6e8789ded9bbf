package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agentic-research/formtab/api"
	"github.com/ohler55/ojg/jp"
)

// ErrNotRecords is returned when a data document (or what its selector
// picks out) is neither a list nor a single object.
var ErrNotRecords = errors.New("document does not hold records")

// SchemaLoader decodes a schema document.
type SchemaLoader struct {
	Source Source
}

func (l SchemaLoader) Load(ctx context.Context) (*api.Form, error) {
	data, err := l.Source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	var doc api.Form
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema json: %w", err)
	}
	return &doc, nil
}

// RecordLoader decodes a data document into a list of records.
//
// Selector is an optional JSONPath picking the records out of a larger
// document, e.g. "$.results[*]" or "$.data".
type RecordLoader struct {
	Source   Source
	Selector string
}

func (l RecordLoader) Load(ctx context.Context) ([]any, error) {
	data, err := l.Source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse records json: %w", err)
	}
	if l.Selector == "" {
		return asList(doc)
	}
	return Select(doc, l.Selector)
}

// Select applies a JSONPath selector to doc. A selector matching one list
// yields that list; a selector matching several values yields them in order.
func Select(doc any, selector string) ([]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	matches := x.Get(doc)
	switch len(matches) {
	case 0:
		return []any{}, nil
	case 1:
		return asList(matches[0])
	default:
		return matches, nil
	}
}

// asList wraps a single object into a one-element list.
func asList(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case map[string]any:
		return []any{x}, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotRecords, v)
	}
}
