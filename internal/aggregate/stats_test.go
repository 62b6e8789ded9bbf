package aggregate

import (
	"errors"
	"testing"

	"github.com/agentic-research/formtab/internal/form"
	"github.com/agentic-research/formtab/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	e := newEngine(t, goodEatsFields, goodEatsData)

	// ratings in row order: 4 3 5 1 4 2 2
	s, err := e.Stats("good_eats/rating")
	require.NoError(t, err)
	require.True(t, s.HasData())

	assert.Equal(t, 7, s.N)
	assert.InDelta(t, 21.0/7, s.Mean, 1e-9)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.Mode, "4 and 2 tie; 4 is seen first")
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 4.0, s.Range)
}

func TestStats_EvenMedian(t *testing.T) {
	e := newEngine(t, goodEatsFields, `[
		{"good_eats/rating": 1},
		{"good_eats/rating": 10},
		{"good_eats/rating": "2"},
		{"good_eats/rating": 4}
	]`)

	s, err := e.Stats("good_eats/rating")
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.Mode, "all unique; first value wins")
}

func TestStats_SkipsMissing(t *testing.T) {
	e := newEngine(t, goodEatsFields, `[
		{"good_eats/rating": 2},
		{},
		{"good_eats/rating": "not a number"},
		{"good_eats/rating": null},
		{"good_eats/rating": 6}
	]`)

	s, err := e.Stats("good_eats/rating")
	require.NoError(t, err)
	assert.Equal(t, 2, s.N)
	assert.Equal(t, 4.0, s.Mean)
	assert.Equal(t, 4.0, s.Median)
}

func TestStats_NoData(t *testing.T) {
	e := newEngine(t, goodEatsFields, `[{}, {}, {"good_eats/rating": ""}]`)

	s, err := e.Stats("good_eats/rating")
	require.NoError(t, err)
	assert.False(t, s.HasData())
	assert.Equal(t, Stats{}, s)
}

func TestStats_NonNumeric(t *testing.T) {
	e := newEngine(t, goodEatsFields, goodEatsData)

	for _, path := range []string{"good_eats/food_type", "good_eats/comment", table.RowID} {
		_, err := e.Stats(path)
		var uae *UnsupportedAggregationError
		require.True(t, errors.As(err, &uae), path)
		assert.Equal(t, path, uae.Path)
	}
}

func TestStats_Decimal(t *testing.T) {
	fields := []*form.Field{form.NewField("weight", "weight", "decimal", nil)}
	e := newEngine(t, fields, `[{"weight": 1.5}, {"weight": "2.5"}, {"weight": 1.5}]`)

	s, err := e.Stats("weight")
	require.NoError(t, err)
	assert.InDelta(t, 5.5/3, s.Mean, 1e-9)
	assert.Equal(t, 1.5, s.Mode)
	assert.Equal(t, 1.5, s.Median)
}
