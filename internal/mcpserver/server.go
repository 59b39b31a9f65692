// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes case-file lookup tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/casefile/internal/casefile"
)

// Server wraps the MCP server with case-file tools.
type Server struct {
	mcp *server.MCPServer
	svc *casefile.Service
}

// New creates a new MCP server with all case-file tools registered.
// The service decides which backend the tools read from.
func New(svc *casefile.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Casefile",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_case_files",
		mcp.WithDescription("Search client, intake, counselor and session records by name "+
			"or file number. An all-digit query matches a file number exactly; anything "+
			"else is a case-insensitive substring match over the name fields."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Name fragment or file number")),
	), s.searchCaseFiles)

	s.mcp.AddTool(mcp.NewTool("get_case_file",
		mcp.WithDescription("Fetch one aggregated case file: merged client and intake "+
			"details, provider assignments and session history."),
		mcp.WithString("file_number", mcp.Required(), mcp.Description("Exact file number")),
	), s.getCaseFile)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchCaseFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matching case files"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getCaseFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileNumber, err := req.RequireString("file_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	agg, err := s.svc.Get(ctx, fileNumber)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if agg.Empty() {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", fileNumber)), nil
	}
	out, _ := json.MarshalIndent(agg, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
