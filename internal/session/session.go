// Package session ties a parsed schema and its loaded records into one
// queryable unit.
package session

import (
	"context"
	"fmt"

	"github.com/agentic-research/formtab/api"
	"github.com/agentic-research/formtab/internal/aggregate"
	"github.com/agentic-research/formtab/internal/form"
	"github.com/agentic-research/formtab/internal/label"
	"github.com/agentic-research/formtab/internal/loader"
	"github.com/agentic-research/formtab/internal/table"
)

// Session is an immutable snapshot: a schema, the table built from it and
// the engine answering queries over that table.
type Session struct {
	Schema   *form.Schema
	Table    *table.Table
	Engine   *aggregate.Engine
	Resolver label.Resolver
}

// New builds the table for schema from records.
func New(schema *form.Schema, records any, r label.Resolver) (*Session, error) {
	t, err := table.Build(schema.Fields, records)
	if err != nil {
		return nil, fmt.Errorf("build table for %s: %w", schema.IDString, err)
	}
	return &Session{
		Schema:   schema,
		Table:    t,
		Engine:   aggregate.New(t),
		Resolver: r,
	}, nil
}

// Open loads the schema and the data concurrently, then builds a Session.
func Open(ctx context.Context, schema loader.Loader[*api.Form], data loader.Loader[[]any], r label.Resolver) (*Session, error) {
	schemaCh := loader.NewManager(schema, form.Parse).Init(ctx)
	dataCh := loader.NewManager(data, func(recs []any) ([]any, error) { return recs, nil }).Init(ctx)

	s, err := loader.Wait(ctx, schemaCh)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	recs, err := loader.Wait(ctx, dataCh)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	return New(s, recs, r)
}

// WithResolver returns a copy of s that renders values through r.
func (s *Session) WithResolver(r label.Resolver) *Session {
	c := *s
	c.Resolver = r
	return &c
}

// Lookup finds a column by path, or failing that by field name.
// The returned field is nil for columns with no schema field, such as table.RowID.
func (s *Session) Lookup(ref string) (string, *form.Field, error) {
	if f, ok := s.Schema.Field(ref); ok {
		return f.Path, f, nil
	}
	if _, ok := s.Table.Column(ref); ok {
		return ref, nil, nil
	}
	if f, ok := s.Schema.FieldByName(ref); ok {
		return f.Path, f, nil
	}
	return "", nil, &aggregate.UnknownColumnError{Path: ref}
}

// Frequencies returns the labelled frequency rows of ref.
func (s *Session) Frequencies(ref string) ([]label.Row, error) {
	path, f, err := s.Lookup(ref)
	if err != nil {
		return nil, err
	}
	freqs, err := s.Engine.Frequencies(path)
	if err != nil {
		return nil, err
	}
	return s.Resolver.Frequencies(f, freqs)
}

// Stats returns the descriptive statistics of ref.
func (s *Session) Stats(ref string) (aggregate.Stats, error) {
	path, _, err := s.Lookup(ref)
	if err != nil {
		return aggregate.Stats{}, err
	}
	return s.Engine.Stats(path)
}

// Summarize runs methods against ref.
func (s *Session) Summarize(ref string, methods aggregate.Method) (aggregate.Summary, error) {
	path, _, err := s.Lookup(ref)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return s.Engine.Summarize(path, methods)
}

// Cell is one labelled entry of a cross tabulation.
type Cell struct {
	Key   string `json:"key"`
	By    string `json:"by"`
	Count int    `json:"count"`
}

// CrossTab counts rows by the pair of values at ref and by, labelled.
func (s *Session) CrossTab(ref, by string) ([]Cell, error) {
	path, f, err := s.Lookup(ref)
	if err != nil {
		return nil, err
	}
	byPath, byField, err := s.Lookup(by)
	if err != nil {
		return nil, err
	}
	groups, err := s.Engine.CrossCount(path, byPath)
	if err != nil {
		return nil, err
	}

	cells := make([]Cell, len(groups))
	for i, g := range groups {
		key, err := s.display(f, g.Key)
		if err != nil {
			return nil, err
		}
		byKey, err := s.display(byField, g.By)
		if err != nil {
			return nil, err
		}
		cells[i] = Cell{Key: key, By: byKey, Count: g.Count}
	}
	return cells, nil
}

// Heading returns the display heading of ref.
func (s *Session) Heading(ref string) (string, error) {
	path, f, err := s.Lookup(ref)
	if err != nil {
		return "", err
	}
	if f == nil {
		return path, nil
	}
	return s.Resolver.Heading(f)
}

func (s *Session) display(f *form.Field, v any) (string, error) {
	out, err := s.Resolver.Display(f, v)
	if err != nil {
		return "", err
	}
	if out == "" {
		return label.NotSpecified, nil
	}
	return out, nil
}
