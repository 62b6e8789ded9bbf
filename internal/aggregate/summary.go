package aggregate

import (
	"strings"

	"github.com/agentic-research/formtab/internal/table"
)

// Method selects what Summarize reports. Methods combine as bit flags.
type Method uint

const (
	MethodFrequencies Method = 1 << iota
	MethodPercentages
	MethodMean
	MethodMedian
	MethodMode
)

// CentralTendency is the set of methods that need a numeric column.
const CentralTendency = MethodMean | MethodMedian | MethodMode

var methodNames = []struct {
	m    Method
	name string
}{
	{MethodFrequencies, "frequencies"},
	{MethodPercentages, "percentages"},
	{MethodMean, "mean"},
	{MethodMedian, "median"},
	{MethodMode, "mode"},
}

// ParseMethods reads a comma separated list of method names.
// Unknown names are returned so callers can report them.
func ParseMethods(s string) (Method, []string) {
	var m Method
	var unknown []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for _, mn := range methodNames {
			if mn.name == part {
				m |= mn.m
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, part)
		}
	}
	return m, unknown
}

func (m Method) String() string {
	var names []string
	for _, mn := range methodNames {
		if m&mn.m != 0 {
			names = append(names, mn.name)
		}
	}
	return strings.Join(names, ",")
}

// Has reports whether every flag in o is set in m.
func (m Method) Has(o Method) bool {
	return m&o == o
}

// Summary holds the results of the requested methods.
// Unrequested results are left nil; so are central-tendency results of a
// column without numbers.
type Summary struct {
	Path        string      `json:"path"`
	Methods     Method      `json:"-"`
	Frequencies []Frequency `json:"frequencies,omitempty"`
	Rows        int         `json:"rows"`
	Mean        *float64    `json:"mean,omitempty"`
	Median      *float64    `json:"median,omitempty"`
	Mode        *float64    `json:"mode,omitempty"`
}

// Summarize runs the selected methods against path.
// With only one of MethodFrequencies and MethodPercentages set, the other
// field of each Frequency is left zero.
func (e *Engine) Summarize(path string, methods Method) (Summary, error) {
	c, err := e.column(path)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Path: path, Methods: methods, Rows: e.t.Len()}

	if methods&(MethodFrequencies|MethodPercentages) != 0 {
		freqs := frequencies(countBy(c), e.t.Len())
		for i := range freqs {
			if !methods.Has(MethodFrequencies) {
				freqs[i].Count = 0
			}
			if !methods.Has(MethodPercentages) {
				freqs[i].Percentage = 0
			}
		}
		sum.Frequencies = freqs
	}

	if methods&CentralTendency == 0 {
		return sum, nil
	}
	if c.Kind != table.Numeric {
		return Summary{}, &UnsupportedAggregationError{Path: path, Kind: c.Kind, Op: (methods & CentralTendency).String()}
	}
	st, err := e.Stats(path)
	if err != nil {
		return Summary{}, err
	}
	if !st.HasData() {
		return sum, nil
	}
	if methods.Has(MethodMean) {
		sum.Mean = &st.Mean
	}
	if methods.Has(MethodMedian) {
		sum.Median = &st.Median
	}
	if methods.Has(MethodMode) {
		sum.Mode = &st.Mode
	}
	return sum, nil
}
