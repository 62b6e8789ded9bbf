// Package infer guesses a form schema from submissions alone, for data that
// arrives without one.
package infer

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agentic-research/formtab/api"
)

var (
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`)
)

const (
	enumMaxDistinct      = 20
	identifierRatioThres = 0.5
)

// Config controls schema inference.
type Config struct {
	SampleSize int    // max records to sample (default 1000)
	IDString   string // id_string of the inferred form (default "inferred")
	Seed       int64  // random seed for reservoir sampling
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SampleSize: 1000,
		IDString:   "inferred",
	}
}

// FieldStats holds what was seen at one key across the sampled records.
type FieldStats struct {
	Count    int            // records holding a non-empty value
	Numbers  int            // values that are numbers or numeric strings
	Integers int            // numeric values without a fractional part
	Dates    int            // strings shaped like a date
	Times    int            // strings shaped like a date and time
	Other    int            // lists, objects and booleans
	Values   map[string]int // distinct string value → count
	Tokens   map[string]int // distinct space separated token → count
	Multi    bool           // some string value holds more than one token
}

// Analyze gathers per-key statistics. Keys come back in the order they are
// first seen, each record's keys taken in sorted order. Keys starting with
// "_" are submission metadata and are skipped.
func Analyze(records []any) (map[string]*FieldStats, []string) {
	stats := make(map[string]*FieldStats)
	var order []string
	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			if k != "" && !strings.HasPrefix(k, "_") {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		for _, k := range keys {
			fs, ok := stats[k]
			if !ok {
				fs = &FieldStats{Values: make(map[string]int), Tokens: make(map[string]int)}
				stats[k] = fs
				order = append(order, k)
			}
			fs.observe(obj[k])
		}
	}
	return stats, order
}

func (fs *FieldStats) observe(v any) {
	switch x := v.(type) {
	case nil:
		return
	case float64:
		fs.Count++
		fs.number(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return
		}
		fs.Count++
		fs.Values[s]++
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			fs.number(f)
		}
		switch {
		case dateTimeRe.MatchString(s):
			fs.Times++
		case dateRe.MatchString(s):
			fs.Dates++
		}
		tokens := strings.Fields(s)
		if len(tokens) > 1 {
			fs.Multi = true
		}
		for _, t := range tokens {
			fs.Tokens[t]++
		}
	default:
		fs.Count++
		fs.Other++
	}
}

func (fs *FieldStats) number(f float64) {
	fs.Numbers++
	if f == math.Trunc(f) {
		fs.Integers++
	}
}

// isEnum reports whether n distinct values over count records look like a
// closed set of choices rather than free text or identifiers.
func isEnum(n, count int) bool {
	return n >= 2 && n <= enumMaxDistinct && float64(n)/float64(count) <= identifierRatioThres
}

// Type decides the form type string for the key.
func (fs *FieldStats) Type() string {
	switch {
	case fs.Count == 0 || fs.Other > 0:
		return "text"
	case fs.Numbers == fs.Count && fs.Integers == fs.Count:
		return "integer"
	case fs.Numbers == fs.Count:
		return "decimal"
	case fs.Times == fs.Count:
		return "datetime"
	case fs.Dates == fs.Count:
		return "date"
	case fs.Multi && isEnum(len(fs.Tokens), fs.Count):
		return "select all that apply"
	case isEnum(len(fs.Values), fs.Count):
		return "select one"
	}
	return "text"
}

// Choices returns the sorted choice names for select types, nil otherwise.
func (fs *FieldStats) Choices() []string {
	var set map[string]int
	switch fs.Type() {
	case "select one":
		set = fs.Values
	case "select all that apply":
		set = fs.Tokens
	default:
		return nil
	}
	names := make([]string, 0, len(set))
	for v := range set {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}

// Inferrer builds form schemas from records.
type Inferrer struct {
	Config Config
}

// New returns an Inferrer with DefaultConfig.
func New() *Inferrer {
	return &Inferrer{Config: DefaultConfig()}
}

// Infer returns a schema whose field paths match the keys of records.
// Keys holding "/" are nested into groups, so "a/b" becomes field b in group a.
func (inf *Inferrer) Infer(records []any) (*api.Form, error) {
	id := inf.Config.IDString
	if id == "" {
		id = DefaultConfig().IDString
	}
	doc := &api.Form{IDString: id, Type: "survey"}
	if len(records) == 0 {
		return doc, nil
	}

	sampled := records
	if inf.Config.SampleSize > 0 && len(records) > inf.Config.SampleSize {
		sampled = reservoirSample(records, inf.Config.SampleSize, inf.Config.Seed)
	}

	stats, order := Analyze(sampled)
	for _, key := range order {
		fs := stats[key]
		node := api.Node{Type: fs.Type()}
		for _, c := range fs.Choices() {
			node.Children = append(node.Children, api.Node{Name: c})
		}
		if err := insert(&doc.Children, strings.Split(key, "/"), node); err != nil {
			return nil, fmt.Errorf("infer %q: %w", key, err)
		}
	}
	return doc, nil
}

// insert places leaf under the groups named by path[:len(path)-1], creating
// them as needed.
func insert(nodes *[]api.Node, path []string, leaf api.Node) error {
	name := path[0]
	if name == "" {
		return fmt.Errorf("empty path segment")
	}
	if len(path) == 1 {
		for _, n := range *nodes {
			if n.Name == name {
				return fmt.Errorf("%s is both a group and a field", name)
			}
		}
		leaf.Name = name
		*nodes = append(*nodes, leaf)
		return nil
	}
	for i := range *nodes {
		n := &(*nodes)[i]
		if n.Name != name {
			continue
		}
		if n.Type != "group" {
			return fmt.Errorf("%s is both a field and a group", name)
		}
		return insert(&n.Children, path[1:], leaf)
	}
	*nodes = append(*nodes, api.Node{Name: name, Type: "group"})
	return insert(&(*nodes)[len(*nodes)-1].Children, path[1:], leaf)
}

// reservoirSample performs reservoir sampling on a slice.
func reservoirSample(records []any, k int, seed int64) []any {
	if len(records) <= k {
		return records
	}
	rng := rand.New(rand.NewSource(seed))
	reservoir := make([]any, k)
	copy(reservoir, records[:k])
	for i := k; i < len(records); i++ {
		j := rng.Intn(i + 1)
		if j < k {
			reservoir[j] = records[i]
		}
	}
	return reservoir
}
