package label

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentic-research/formtab/internal/aggregate"
	"github.com/agentic-research/formtab/internal/form"
	"github.com/agentic-research/formtab/internal/table"
)

// NotSpecified is shown in place of an empty answer.
const NotSpecified = "-"

// Resolve turns a raw stored value into display text.
//
// Values of non-choice fields, or of columns with no field, are rendered as
// they are. Values of select fields are split on single spaces into choice
// names, each replaced by its label in language and joined with ", ". Names
// that match no choice are dropped. Absent and null values render as "".
func Resolve(f *form.Field, raw any, language string) (string, error) {
	s := Raw(raw)
	if s == "" || f == nil || !f.Logical().IsChoice() {
		return s, nil
	}

	var labels []string
	for _, name := range strings.Split(s, " ") {
		c, ok := f.Choice(name)
		if !ok {
			continue
		}
		l, err := c.Label(language)
		if err != nil {
			return "", err
		}
		labels = append(labels, l)
	}
	return strings.Join(labels, ", "), nil
}

// Raw renders a raw value without label lookup.
func Raw(v any) string {
	switch x := v.(type) {
	case nil, table.Missing:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// Resolver renders values the way a reader asked for them: as labels in one
// language, or as the raw stored values.
type Resolver struct {
	ShowLabels bool
	Language   string
}

// Display renders raw as a label when r.ShowLabels is set, and verbatim otherwise.
func (r Resolver) Display(f *form.Field, raw any) (string, error) {
	if !r.ShowLabels {
		return Raw(raw), nil
	}
	return Resolve(f, raw, r.Language)
}

// Row is a frequency ready for display.
type Row struct {
	Answer     string  `json:"answer"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Frequencies renders the answers of freqs. Empty answers become NotSpecified.
func (r Resolver) Frequencies(f *form.Field, freqs []aggregate.Frequency) ([]Row, error) {
	rows := make([]Row, len(freqs))
	for i, fr := range freqs {
		answer, err := r.Display(f, fr.Value)
		if err != nil {
			return nil, err
		}
		if answer == "" {
			answer = NotSpecified
		}
		rows[i] = Row{Answer: answer, Count: fr.Count, Percentage: fr.Percentage}
	}
	return rows, nil
}

// Heading returns the column heading for f: its label when showing labels,
// its name otherwise.
func (r Resolver) Heading(f *form.Field) (string, error) {
	if f == nil {
		return "", nil
	}
	if !r.ShowLabels {
		return f.Name, nil
	}
	return f.Label(r.Language)
}
