package infer

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/agentic-research/formtab/internal/form"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeGoodEatsRecords(n int) []any {
	foods := []string{"breakfast", "lunch", "dinner"}
	browsers := []string{"chrome", "chrome ie", "firefox", "ie firefox"}
	records := make([]any, n)
	for i := 0; i < n; i++ {
		records[i] = map[string]any{
			"_id":                   float64(100 + i),
			"_attachments":          []any{},
			"good_eats/food_type":   foods[i%len(foods)],
			"good_eats/rating":      fmt.Sprint(1 + i%5),
			"good_eats/amount":      float64(i) + 0.5,
			"good_eats/comment":     fmt.Sprintf("comment number %d", i),
			"good_eats/browsers":    browsers[i%len(browsers)],
			"good_eats/date":        fmt.Sprintf("2013-02-%02d", 1+i%28),
			"meta/submission_time":  fmt.Sprintf("2013-02-18T15:%02d:00", i%60),
			"location/gps/accuracy": nil,
		}
	}
	return records
}

func TestAnalyze(t *testing.T) {
	stats, order := Analyze(makeGoodEatsRecords(10))

	assert.NotContains(t, order, "_id")
	assert.NotContains(t, order, "_attachments")
	assert.Equal(t, []string{
		"good_eats/amount",
		"good_eats/browsers",
		"good_eats/comment",
		"good_eats/date",
		"good_eats/food_type",
		"good_eats/rating",
		"location/gps/accuracy",
		"meta/submission_time",
	}, order)

	ft := stats["good_eats/food_type"]
	assert.Equal(t, 10, ft.Count)
	assert.Len(t, ft.Values, 3)
	assert.Equal(t, 0, stats["location/gps/accuracy"].Count)
}

func TestFieldStats_Type(t *testing.T) {
	stats, _ := Analyze(makeGoodEatsRecords(20))

	cases := map[string]string{
		"good_eats/food_type":   "select one",
		"good_eats/rating":      "integer",
		"good_eats/amount":      "decimal",
		"good_eats/comment":     "text",
		"good_eats/browsers":    "select all that apply",
		"good_eats/date":        "date",
		"meta/submission_time":  "datetime",
		"location/gps/accuracy": "text",
	}
	for key, want := range cases {
		assert.Equal(t, want, stats[key].Type(), key)
	}

	assert.Equal(t, []string{"breakfast", "dinner", "lunch"}, stats["good_eats/food_type"].Choices())
	assert.Equal(t, []string{"chrome", "firefox", "ie"}, stats["good_eats/browsers"].Choices())
	assert.Nil(t, stats["good_eats/rating"].Choices())
}

func TestFieldStats_Identifiers(t *testing.T) {
	// Two records, two distinct values: too few repeats to be a choice list.
	stats, _ := Analyze([]any{
		map[string]any{"name": "Alice"},
		map[string]any{"name": "Bob"},
	})
	assert.Equal(t, "text", stats["name"].Type())

	stats, _ = Analyze([]any{
		map[string]any{"tags": []any{"a"}},
		map[string]any{"tags": "x"},
	})
	assert.Equal(t, "text", stats["tags"].Type())
}

func TestInfer(t *testing.T) {
	records := makeGoodEatsRecords(30)
	doc, err := (&Inferrer{Config: Config{IDString: "good_eats"}}).Infer(records)
	require.NoError(t, err)
	assert.Equal(t, "good_eats", doc.IDString)

	// Top level: groups in first-seen order.
	var top []string
	for _, n := range doc.Children {
		top = append(top, n.Name)
		assert.Equal(t, "group", n.Type)
	}
	assert.Equal(t, []string{"good_eats", "location", "meta"}, top)

	// The inferred schema parses, and its paths match the data keys.
	schema, err := form.Parse(doc)
	require.NoError(t, err)
	f, ok := schema.Field("good_eats/food_type")
	require.True(t, ok)
	assert.True(t, f.Is(form.SelectOne))
	assert.Len(t, f.Choices(), 3)

	f, ok = schema.Field("location/gps/accuracy")
	require.True(t, ok)
	assert.Equal(t, "accuracy", f.Name)

	label, err := f.Label("")
	require.NoError(t, err)
	assert.Equal(t, "accuracy", label)

	_, err = json.Marshal(doc)
	require.NoError(t, err)
}

func TestInfer_Empty(t *testing.T) {
	doc, err := New().Infer(nil)
	require.NoError(t, err)
	assert.Equal(t, "inferred", doc.IDString)
	assert.Empty(t, doc.Children)
}

func TestInfer_FieldGroupClash(t *testing.T) {
	_, err := New().Infer([]any{map[string]any{"a": "x", "a/b": "y"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both")
}

func TestInfer_Sampling(t *testing.T) {
	records := makeGoodEatsRecords(200)
	inf := &Inferrer{Config: Config{SampleSize: 50, Seed: 7}}

	a, err := inf.Infer(records)
	require.NoError(t, err)
	b, err := inf.Infer(records)
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.JSONEq(t, string(ja), string(jb), "same seed, same schema")
}

func TestReservoirSample(t *testing.T) {
	records := make([]any, 100)
	for i := range records {
		records[i] = i
	}
	assert.Len(t, reservoirSample(records, 10, 1), 10)
	assert.Len(t, reservoirSample(records[:5], 10, 1), 5)
}
