// Package mcpserver exposes a formtab session as MCP tools so agents can
// query form data.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/agentic-research/formtab/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// OpenFunc builds a fresh session, used by the reload tool.
type OpenFunc func(context.Context) (*session.Session, error)

// Server answers MCP tool calls against the current session.
type Server struct {
	mcp      *server.MCPServer
	sessions *session.HotSwap
	open     OpenFunc
}

// New registers the formtab tools. open may be nil, in which case the reload
// tool reports that reloading is unavailable.
func New(sessions *session.HotSwap, open OpenFunc) *Server {
	s := &Server{
		sessions: sessions,
		open:     open,
	}
	s.mcp = server.NewMCPServer(
		"formtab",
		Version,
		server.WithToolCapabilities(true),
	)
	s.registerSchemaTools()
	s.registerQueryTools()
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// current returns the active session, rendering labels as the request asks.
func (s *Server) current(req mcp.CallToolRequest) *session.Session {
	sess := s.sessions.Current()
	r := sess.Resolver
	r.Language = req.GetString("language", r.Language)
	r.ShowLabels = !req.GetBool("raw", !r.ShowLabels)
	if r == sess.Resolver {
		return sess
	}
	return sess.WithResolver(r)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
