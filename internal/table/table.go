package table

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/formtab/internal/form"
)

// RowID is the name of the synthetic column holding each record's identifier.
const RowID = "_id"

// Kind classifies how a column's values are aggregated.
type Kind int

const (
	// Unknown columns are grouped by raw value only.
	Unknown Kind = iota
	// Nominal columns hold one choice name per row.
	Nominal
	// Numeric columns hold numbers and support central-tendency statistics.
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Nominal:
		return "nominal"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// KindOf derives a column kind from a field's logical type.
func KindOf(t form.Type) Kind {
	switch {
	case t == form.SelectOne:
		return Nominal
	case t.IsNumeric():
		return Numeric
	default:
		return Unknown
	}
}

// Missing is the type of Absent.
type Missing struct{}

func (Missing) String() string { return "<absent>" }

// MarshalJSON renders an absent value as JSON null.
func (Missing) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Absent marks a row whose record has no value for a column.
var Absent = Missing{}

// IsAbsent reports whether v is the absent marker.
func IsAbsent(v any) bool {
	_, ok := v.(Missing)
	return ok
}

// Column is one typed column. Row i of every column in a table comes from the same record.
type Column struct {
	Name  string
	Kind  Kind
	Field *form.Field // nil for the row identifier column

	values  []any
	present *roaring.Bitmap // rows with a value
	numbers []float64       // parsed values, numeric columns only
	numeric *roaring.Bitmap // rows whose value parsed as a number
}

func newColumn(name string, kind Kind, f *form.Field, rows int) *Column {
	c := &Column{
		Name:    name,
		Kind:    kind,
		Field:   f,
		values:  make([]any, 0, rows),
		present: roaring.New(),
	}
	if kind == Numeric {
		c.numbers = make([]float64, 0, rows)
		c.numeric = roaring.New()
	}
	return c
}

func (c *Column) push(v any) {
	row := uint32(len(c.values))
	c.values = append(c.values, v)
	if !IsAbsent(v) {
		c.present.Add(row)
	}
	if c.Kind != Numeric {
		return
	}
	n, ok := toNumber(v)
	c.numbers = append(c.numbers, n)
	if ok {
		c.numeric.Add(row)
	}
}

// Len returns the number of rows.
func (c *Column) Len() int {
	return len(c.values)
}

// Value returns the raw value at row i, or Absent.
func (c *Column) Value(i int) any {
	return c.values[i]
}

// Number returns the numeric value at row i.
// The second result is false when the column is not numeric or the value is
// absent or not a number.
func (c *Column) Number(i int) (float64, bool) {
	if c.Kind != Numeric || !c.numeric.Contains(uint32(i)) {
		return 0, false
	}
	return c.numbers[i], true
}

// Present returns the rows holding a value. The bitmap is a copy.
func (c *Column) Present() *roaring.Bitmap {
	return c.present.Clone()
}

// Numeric returns the rows holding a number. Empty for non-numeric columns.
func (c *Column) Numeric() *roaring.Bitmap {
	if c.numeric == nil {
		return roaring.New()
	}
	return c.numeric.Clone()
}

// Table is an immutable set of equally long columns built from submission records.
type Table struct {
	rows    int
	columns []*Column
	index   map[string]int
}

// Build creates one column per field, in field order, after a leading row
// identifier column, and fills them from records.
//
// records must be a list of JSON objects keyed by field path. A key missing
// from a record is stored as Absent.
func Build(fields []*form.Field, records any) (*Table, error) {
	rows, err := asRecords(records)
	if err != nil {
		return nil, err
	}

	t := &Table{
		rows:    len(rows),
		columns: make([]*Column, 0, len(fields)+1),
		index:   make(map[string]int, len(fields)+1),
	}
	t.add(newColumn(RowID, Unknown, nil, len(rows)))
	for i, f := range fields {
		if f == nil || f.Path == "" {
			name := ""
			if f != nil {
				name = f.Name
			}
			return nil, &InvalidFieldError{Index: i, Name: name, Reason: "no path"}
		}
		if _, dup := t.index[f.Path]; dup {
			return nil, &InvalidFieldError{Index: i, Name: f.Name, Reason: fmt.Sprintf("path %q already has a column", f.Path)}
		}
		t.add(newColumn(f.Path, KindOf(f.Logical()), f, len(rows)))
	}

	for i, r := range rows {
		rec, ok := r.(map[string]any)
		if !ok {
			log.Printf("table: record %d is %T, not an object; storing it as absent", i, r)
		}
		for _, c := range t.columns {
			v, has := rec[c.Name]
			if !has {
				v = Absent
			}
			c.push(v)
		}
	}
	return t, nil
}

func (t *Table) add(c *Column) {
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Columns returns the columns in table order, row identifier first.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the column named name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

func asRecords(records any) ([]any, error) {
	switch rs := records.(type) {
	case []any:
		return rs, nil
	case []map[string]any:
		out := make([]any, len(rs))
		for i, r := range rs {
			out[i] = r
		}
		return out, nil
	default:
		return nil, &RecordCountMismatchError{Got: fmt.Sprintf("%T", records)}
	}
}

// toNumber parses JSON numbers and numeric strings.
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(n), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
