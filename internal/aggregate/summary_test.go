package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethods(t *testing.T) {
	m, unknown := ParseMethods("frequencies, Mean,median,bogus,")
	assert.Equal(t, MethodFrequencies|MethodMean|MethodMedian, m)
	assert.Equal(t, []string{"bogus"}, unknown)
	assert.Equal(t, "frequencies,mean,median", m.String())

	m, unknown = ParseMethods("")
	assert.Zero(t, m)
	assert.Empty(t, unknown)
}

func TestSummarize(t *testing.T) {
	e := newEngine(t, goodEatsFields, goodEatsData)

	t.Run("counts only", func(t *testing.T) {
		sum, err := e.Summarize("good_eats/food_type", MethodFrequencies)
		require.NoError(t, err)
		require.Len(t, sum.Frequencies, 3)
		assert.Equal(t, 3, sum.Frequencies[0].Count)
		assert.Zero(t, sum.Frequencies[0].Percentage)
		assert.Nil(t, sum.Mean)
		assert.Equal(t, 7, sum.Rows)
	})

	t.Run("percentages only", func(t *testing.T) {
		sum, err := e.Summarize("good_eats/food_type", MethodPercentages)
		require.NoError(t, err)
		assert.Zero(t, sum.Frequencies[0].Count)
		assert.InDelta(t, 300.0/7, sum.Frequencies[0].Percentage, 1e-9)
	})

	t.Run("central tendency", func(t *testing.T) {
		sum, err := e.Summarize("good_eats/rating", MethodMean|MethodMode)
		require.NoError(t, err)
		assert.Empty(t, sum.Frequencies)
		require.NotNil(t, sum.Mean)
		require.NotNil(t, sum.Mode)
		assert.Nil(t, sum.Median)
		assert.InDelta(t, 3.0, *sum.Mean, 1e-9)
		assert.Equal(t, 4.0, *sum.Mode)
	})

	t.Run("central tendency on nominal column", func(t *testing.T) {
		_, err := e.Summarize("good_eats/food_type", MethodFrequencies|MethodMedian)
		var uae *UnsupportedAggregationError
		require.True(t, errors.As(err, &uae))
		assert.Equal(t, "median", uae.Op)
	})

	t.Run("no numbers", func(t *testing.T) {
		empty := newEngine(t, goodEatsFields, `[{}]`)
		sum, err := empty.Summarize("good_eats/rating", CentralTendency)
		require.NoError(t, err)
		assert.Nil(t, sum.Mean)
		assert.Nil(t, sum.Median)
		assert.Nil(t, sum.Mode)
	})
}
