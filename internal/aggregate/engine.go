package aggregate

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/RoaringBitmap/roaring"
	"github.com/agentic-research/formtab/internal/table"
)

// Group is the set of rows sharing one raw value of a column.
type Group struct {
	Key   any             // raw value, table.Absent for rows without one
	Count int             // number of rows in the group
	Rows  *roaring.Bitmap // row indices
}

// Frequency is a Group expressed as a share of all rows.
type Frequency struct {
	Value      any     `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CrossGroup counts the rows sharing a value at one column and a value at another.
type CrossGroup struct {
	Key   any `json:"key"`
	By    any `json:"by"`
	Count int `json:"count"`
}

// Engine answers grouping queries over one table.
// It holds no state besides the table, so one Engine may serve concurrent callers.
type Engine struct {
	t *table.Table
}

func New(t *table.Table) *Engine {
	return &Engine{t: t}
}

// Table returns the table the engine queries.
func (e *Engine) Table() *table.Table {
	return e.t
}

func (e *Engine) column(path string) (*table.Column, error) {
	c, ok := e.t.Column(path)
	if !ok {
		return nil, &UnknownColumnError{Path: path}
	}
	return c, nil
}

// CountBy partitions all rows by the raw value at path.
// Groups come in the order their key is first seen; rows without a value
// form their own group keyed by table.Absent.
func (e *Engine) CountBy(path string) ([]Group, error) {
	c, err := e.column(path)
	if err != nil {
		return nil, err
	}
	return countBy(c), nil
}

func countBy(c *table.Column) []Group {
	var groups []Group
	index := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		v := c.Value(i)
		k := groupKey(v)
		g, ok := index[k]
		if !ok {
			g = len(groups)
			index[k] = g
			groups = append(groups, Group{Key: v, Rows: roaring.New()})
		}
		groups[g].Rows.Add(uint32(i))
		groups[g].Count++
	}
	return groups
}

// Frequencies reports each group's count and its percentage of all rows,
// rows without a value included.
func (e *Engine) Frequencies(path string) ([]Frequency, error) {
	groups, err := e.CountBy(path)
	if err != nil {
		return nil, err
	}
	return frequencies(groups, e.t.Len()), nil
}

func frequencies(groups []Group, total int) []Frequency {
	out := make([]Frequency, len(groups))
	for i, g := range groups {
		out[i] = Frequency{Value: g.Key, Count: g.Count}
		if total > 0 {
			out[i].Percentage = 100 * float64(g.Count) / float64(total)
		}
	}
	return out
}

// CrossCount counts rows for every combination of a value at path and a value at by
// that occurs in the data, ordered by first occurrence of the path value, then the by value.
func (e *Engine) CrossCount(path, by string) ([]CrossGroup, error) {
	c, err := e.column(path)
	if err != nil {
		return nil, err
	}
	byCol, err := e.column(by)
	if err != nil {
		return nil, err
	}

	var out []CrossGroup
	byGroups := countBy(byCol)
	for _, g := range countBy(c) {
		for _, b := range byGroups {
			n := g.Rows.AndCardinality(b.Rows)
			if n == 0 {
				continue
			}
			out = append(out, CrossGroup{Key: g.Key, By: b.Key, Count: int(n)})
		}
	}
	return out, nil
}

// groupKey gives every distinct raw value a distinct string.
// The type prefix keeps the string "4" and the number 4 apart.
func groupKey(v any) string {
	switch x := v.(type) {
	case table.Missing:
		return "a:"
	case nil:
		return "z:"
	case string:
		return "s:" + x
	case float64:
		return "n:" + strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("?:%v", x)
		}
		return "j:" + string(b)
	}
}
