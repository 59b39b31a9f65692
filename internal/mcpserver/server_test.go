package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/casefile/internal/casefile"
	"github.com/starford/casefile/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	svc := casefile.NewService(testutil.CSVSource(t), nil, 10)
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_case_files":
		result, err = srv.searchCaseFiles(ctx, req)
	case "get_case_file":
		result, err = srv.getCaseFile(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchCaseFilesByName(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_case_files", map[string]interface{}{"query": "doe"})
	if r.IsError {
		t.Fatalf("search failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"fileNumber": "100"`) {
		t.Errorf("search result missing file 100:\n%s", text)
	}
	if !strings.Contains(text, "DOE, JANE") {
		t.Errorf("search result missing client name:\n%s", text)
	}
}

func TestSearchCaseFilesNoMatch(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_case_files", map[string]interface{}{"query": "zzzz"})
	if r.IsError {
		t.Fatalf("search failed: %s", resultText(r))
	}
	if got := resultText(r); got != "no matching case files" {
		t.Errorf("result = %q", got)
	}
}

func TestSearchCaseFilesMissingQuery(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_case_files", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing query")
	}
}

func TestGetCaseFile(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_case_file", map[string]interface{}{"file_number": "100"})
	if r.IsError {
		t.Fatalf("get failed: %s", resultText(r))
	}
	text := resultText(r)
	for _, want := range []string{`"fileNumber": "100"`, "Dana Reyes", "2023-05-01"} {
		if !strings.Contains(text, want) {
			t.Errorf("aggregate missing %q:\n%s", want, text)
		}
	}
}

func TestGetCaseFileNotFound(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "get_case_file", map[string]interface{}{"file_number": "999999"})
	if !r.IsError {
		t.Error("expected error for unknown file number")
	}
	if got := resultText(r); got != "not found: 999999" {
		t.Errorf("result = %q", got)
	}
}
