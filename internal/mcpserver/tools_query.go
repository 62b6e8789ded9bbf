package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentic-research/formtab/internal/aggregate"
	"github.com/mark3labs/mcp-go/mcp"
)

type countRow struct {
	Answer string `json:"answer"`
	Count  int    `json:"count"`
}

func labelOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("language", mcp.Description("Label language (optional)")),
		mcp.WithBoolean("raw", mcp.Description("Return stored values instead of labels")),
	}
}

func (s *Server) registerQueryTools() {
	field := mcp.WithString("field", mcp.Description("Field path (e.g. good_eats/food_type) or field name"), mcp.Required())

	s.mcp.AddTool(mcp.NewTool("count_by", append([]mcp.ToolOption{
		mcp.WithDescription("Count submissions by the value of one field. Rows without a value are counted under \"-\"."),
		field,
	}, labelOptions()...)...), s.handleCountBy)

	s.mcp.AddTool(mcp.NewTool("frequencies", append([]mcp.ToolOption{
		mcp.WithDescription("Count and percentage of submissions for each value of a field. Percentages are of all submissions."),
		field,
	}, labelOptions()...)...), s.handleFrequencies)

	s.mcp.AddTool(mcp.NewTool("stats",
		mcp.WithDescription("Mean, median, mode, min, max and range of a numeric field (integer or decimal)."),
		field,
	), s.handleStats)

	s.mcp.AddTool(mcp.NewTool("summarize",
		mcp.WithDescription("Run several summary methods at once over a field."),
		field,
		mcp.WithString("methods",
			mcp.Description("Comma separated methods: frequencies, percentages, mean, median, mode"),
			mcp.Required(),
		),
	), s.handleSummarize)

	s.mcp.AddTool(mcp.NewTool("crosstab", append([]mcp.ToolOption{
		mcp.WithDescription("Count submissions for every pair of values of two fields."),
		field,
		mcp.WithString("by", mcp.Description("Second field path or name"), mcp.Required()),
	}, labelOptions()...)...), s.handleCrossTab)
}

func (s *Server) handleCountBy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("field")
	if err != nil {
		return nil, err
	}
	rows, err := s.current(req).Frequencies(ref)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", ref, err)
	}
	out := make([]countRow, len(rows))
	for i, r := range rows {
		out[i] = countRow{Answer: r.Answer, Count: r.Count}
	}
	return jsonResult(out)
}

func (s *Server) handleFrequencies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("field")
	if err != nil {
		return nil, err
	}
	rows, err := s.current(req).Frequencies(ref)
	if err != nil {
		return nil, fmt.Errorf("frequencies of %s: %w", ref, err)
	}
	return jsonResult(rows)
}

func (s *Server) handleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("field")
	if err != nil {
		return nil, err
	}
	st, err := s.sessions.Current().Stats(ref)
	if err != nil {
		return nil, fmt.Errorf("stats of %s: %w", ref, err)
	}
	return jsonResult(st)
}

func (s *Server) handleSummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("field")
	if err != nil {
		return nil, err
	}
	methods, unknown := aggregate.ParseMethods(req.GetString("methods", ""))
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown methods: %s", strings.Join(unknown, ", "))
	}
	if methods == 0 {
		return nil, fmt.Errorf("methods is required")
	}
	sum, err := s.sessions.Current().Summarize(ref, methods)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", ref, err)
	}
	return jsonResult(sum)
}

func (s *Server) handleCrossTab(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("field")
	if err != nil {
		return nil, err
	}
	by, err := req.RequireString("by")
	if err != nil {
		return nil, err
	}
	cells, err := s.current(req).CrossTab(ref, by)
	if err != nil {
		return nil, fmt.Errorf("crosstab %s by %s: %w", ref, by, err)
	}
	return jsonResult(cells)
}
