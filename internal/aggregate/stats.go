package aggregate

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/agentic-research/formtab/internal/table"
)

// Stats summarises the numeric values of a column.
// A zero Stats (N == 0) means the column holds no numbers.
type Stats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
}

// HasData reports whether any numeric value contributed.
func (s Stats) HasData() bool {
	return s.N > 0
}

// Stats computes mean, median, mode and bounds over the numeric values at path.
// Absent and unparseable values are skipped. For an even count the median is
// the average of the two middle values; ties for the mode go to the value seen first.
func (e *Engine) Stats(path string) (Stats, error) {
	c, err := e.column(path)
	if err != nil {
		return Stats{}, err
	}
	if c.Kind != table.Numeric {
		return Stats{}, &UnsupportedAggregationError{Path: path, Kind: c.Kind, Op: "stats"}
	}

	xs := make([]float64, 0, c.Len())
	it := c.Numeric().Iterator()
	for it.HasNext() {
		n, _ := c.Number(int(it.Next()))
		xs = append(xs, n)
	}
	if len(xs) == 0 {
		return Stats{}, nil
	}

	lo, hi := stats.Bounds(xs)
	s := Stats{
		N:     len(xs),
		Mean:  stats.Mean(xs),
		Mode:  mode(xs),
		Min:   lo,
		Max:   hi,
		Range: hi - lo,
	}
	// Quantile sorts a copy of xs.
	s.Median = stats.Sample{Xs: xs}.Quantile(0.5)
	return s, nil
}

func mode(xs []float64) float64 {
	counts := make(map[float64]int, len(xs))
	top := 0
	for _, x := range xs {
		counts[x]++
		top = max(top, counts[x])
	}
	for _, x := range xs {
		if counts[x] == top {
			return x
		}
	}
	return xs[0]
}
