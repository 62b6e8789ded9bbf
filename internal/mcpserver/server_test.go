package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/agentic-research/formtab/internal/aggregate"
	"github.com/agentic-research/formtab/internal/label"
	"github.com/agentic-research/formtab/internal/loader"
	"github.com/agentic-research/formtab/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaDoc = `{
  "id_string": "good_eats",
  "children": [
    {"name": "food_type", "type": "select one",
     "label": {"English": "Type of Food", "French": "Type de nourriture"},
     "children": [
       {"name": "lunch", "label": {"English": "Lunch", "French": "Déjeuner"}},
       {"name": "dinner", "label": {"English": "Dinner", "French": "Dîner"}}
     ]},
    {"name": "rating", "type": "integer", "label": {"English": "Rating", "French": "Note"}}
  ]
}`

const dataDoc = `[
  {"_id": 1, "food_type": "lunch",  "rating": 4},
  {"_id": 2, "food_type": "dinner", "rating": 2},
  {"_id": 3, "food_type": "lunch",  "rating": 3}
]`

func openFunc(data string) OpenFunc {
	return func(ctx context.Context) (*session.Session, error) {
		return session.Open(ctx,
			loader.SchemaLoader{Source: loader.MemorySource(schemaDoc)},
			loader.RecordLoader{Source: loader.MemorySource(data)},
			label.Resolver{ShowLabels: true})
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sess, err := openFunc(dataDoc)(context.Background())
	require.NoError(t, err)
	return New(session.NewHotSwap(sess), openFunc(`[{"food_type": "dinner"}]`))
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func decode(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

func TestRegisteredTools(t *testing.T) {
	s := newTestServer(t)
	tools := s.MCP().ListTools()
	for _, name := range []string{"list_fields", "count_by", "frequencies", "stats", "summarize", "crosstab", "reload"} {
		assert.Contains(t, tools, name)
	}
}

func TestListFields(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListFields(context.Background(), call(map[string]any{"language": "French"}))
	require.NoError(t, err)

	var info schemaInfo
	decode(t, res, &info)
	assert.Equal(t, "good_eats", info.IDString)
	assert.Equal(t, []string{"English", "French"}, info.Languages)
	assert.Equal(t, 3, info.Rows)
	require.Len(t, info.Fields, 2)
	assert.Equal(t, fieldInfo{
		Name:    "food_type",
		Path:    "food_type",
		Type:    "select one",
		Label:   "Type de nourriture",
		Choices: []string{"lunch", "dinner"},
	}, info.Fields[0])

	_, err = s.handleListFields(context.Background(), call(map[string]any{"language": "Swahili"}))
	require.Error(t, err)
}

func TestCountBy(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleCountBy(context.Background(), call(map[string]any{"field": "food_type"}))
	require.NoError(t, err)
	var rows []countRow
	decode(t, res, &rows)
	assert.Equal(t, []countRow{{Answer: "Lunch", Count: 2}, {Answer: "Dinner", Count: 1}}, rows)

	res, err = s.handleCountBy(context.Background(), call(map[string]any{"field": "food_type", "raw": true}))
	require.NoError(t, err)
	decode(t, res, &rows)
	assert.Equal(t, "lunch", rows[0].Answer)

	_, err = s.handleCountBy(context.Background(), call(map[string]any{}))
	require.Error(t, err)

	_, err = s.handleCountBy(context.Background(), call(map[string]any{"field": "nope"}))
	var uce *aggregate.UnknownColumnError
	require.True(t, errors.As(err, &uce))
}

func TestFrequencies(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleFrequencies(context.Background(), call(map[string]any{"field": "food_type", "language": "French"}))
	require.NoError(t, err)
	var rows []label.Row
	decode(t, res, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "Déjeuner", rows[0].Answer)
	assert.InDelta(t, 200.0/3, rows[0].Percentage, 1e-9)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleStats(context.Background(), call(map[string]any{"field": "rating"}))
	require.NoError(t, err)
	var st aggregate.Stats
	decode(t, res, &st)
	assert.Equal(t, 3, st.N)
	assert.Equal(t, 3.0, st.Mean)
	assert.Equal(t, 3.0, st.Median)

	_, err = s.handleStats(context.Background(), call(map[string]any{"field": "food_type"}))
	var uae *aggregate.UnsupportedAggregationError
	require.True(t, errors.As(err, &uae))
}

func TestSummarize(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSummarize(context.Background(), call(map[string]any{"field": "rating", "methods": "mean,mode"}))
	require.NoError(t, err)
	var sum struct {
		Mean   *float64 `json:"mean"`
		Median *float64 `json:"median"`
	}
	decode(t, res, &sum)
	require.NotNil(t, sum.Mean)
	assert.Equal(t, 3.0, *sum.Mean)
	assert.Nil(t, sum.Median)

	_, err = s.handleSummarize(context.Background(), call(map[string]any{"field": "rating", "methods": "mean,average"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "average")

	_, err = s.handleSummarize(context.Background(), call(map[string]any{"field": "rating", "methods": ""}))
	require.Error(t, err)
}

func TestCrossTab(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleCrossTab(context.Background(), call(map[string]any{"field": "food_type", "by": "rating"}))
	require.NoError(t, err)
	var cells []session.Cell
	decode(t, res, &cells)
	assert.Equal(t, []session.Cell{
		{Key: "Lunch", By: "4", Count: 1},
		{Key: "Lunch", By: "3", Count: 1},
		{Key: "Dinner", By: "2", Count: 1},
	}, cells)
}

func TestReload(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleReload(context.Background(), call(nil))
	require.NoError(t, err)
	text := res.Content[0].(mcp.TextContent).Text
	assert.Equal(t, "reloaded good_eats: 1 rows", text)
	assert.Equal(t, 1, s.sessions.Current().Table.Len())

	s.open = func(context.Context) (*session.Session, error) { return nil, errors.New("offline") }
	_, err = s.handleReload(context.Background(), call(nil))
	require.Error(t, err)
	assert.Equal(t, 1, s.sessions.Current().Table.Len())

	s.open = nil
	_, err = s.handleReload(context.Background(), call(nil))
	require.Error(t, err)
}
