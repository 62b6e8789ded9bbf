package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

type fieldInfo struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Type    string   `json:"type"`
	Label   string   `json:"label"`
	Choices []string `json:"choices,omitempty"`
}

type schemaInfo struct {
	IDString        string      `json:"id_string"`
	Languages       []string    `json:"languages"`
	DefaultLanguage string      `json:"default_language"`
	Rows            int         `json:"rows"`
	Fields          []fieldInfo `json:"fields"`
}

func (s *Server) registerSchemaTools() {
	s.mcp.AddTool(mcp.NewTool("list_fields",
		mcp.WithDescription("List the fields of the loaded form with their paths, types, labels and choice names, plus the languages its labels are written in."),
		mcp.WithString("language", mcp.Description("Label language (optional, defaults to the form's default language)")),
	), s.handleListFields)

	s.mcp.AddTool(mcp.NewTool("reload",
		mcp.WithDescription("Reload the schema and data from their configured locations. Queries keep using the previous data until the reload succeeds."),
	), s.handleReload)
}

func (s *Server) handleListFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := s.sessions.Current()
	lang := req.GetString("language", sess.Resolver.Language)

	info := schemaInfo{
		IDString:        sess.Schema.IDString,
		Languages:       sess.Schema.Languages,
		DefaultLanguage: sess.Schema.DefaultLanguage,
		Rows:            sess.Table.Len(),
		Fields:          make([]fieldInfo, 0, len(sess.Schema.Fields)),
	}
	for _, f := range sess.Schema.Fields {
		l, err := f.Label(lang)
		if err != nil {
			return nil, fmt.Errorf("label of %s: %w", f.Path, err)
		}
		fi := fieldInfo{Name: f.Name, Path: f.Path, Type: f.Type, Label: l}
		for _, c := range f.Choices() {
			fi.Choices = append(fi.Choices, c.Value)
		}
		info.Fields = append(info.Fields, fi)
	}
	return jsonResult(info)
}

func (s *Server) handleReload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.open == nil {
		return nil, fmt.Errorf("reload is not available for in-memory data")
	}
	next, err := s.sessions.Reload(ctx, s.open)
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	return textResult(fmt.Sprintf("reloaded %s: %d rows", next.Schema.IDString, next.Table.Len())), nil
}
