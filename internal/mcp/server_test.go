package mcp_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-ports/kontacto/internal/checkers"
	internalmcp "github.com/go-ports/kontacto/internal/mcp"
	"github.com/go-ports/kontacto/internal/service"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newMCPClient creates an initialized in-process client over a fresh
// service rooted at a temp directory.
func newMCPClient(c *qt.C) (*mcpclient.Client, *service.Service) {
	c.TB.Helper()

	svc, err := service.New(context.Background(), c.TB.TempDir())
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = svc.Close(context.Background()) })

	cl, err := mcpclient.NewInProcessClient(internalmcp.NewServer(svc))
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = cl.Close() })

	c.Assert(cl.Start(context.Background()), qt.IsNil)

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "kontacto-test", Version: "0.0.1"}
	_, err = cl.Initialize(context.Background(), initReq)
	c.Assert(err, qt.IsNil)

	return cl, svc
}

// callTool invokes the named tool and returns the text of its first
// content item and whether the tool reported an error.
func callTool(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) (string, bool) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := cl.CallTool(context.Background(), req)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Content, qt.HasLen, 1)

	tc, ok := mcp.AsTextContent(result.Content[0])
	c.Assert(ok, qt.IsTrue)
	return tc.Text, result.IsError
}

func runCommand(c *qt.C, cl *mcpclient.Client, line string) string {
	text, isErr := callTool(c, cl, "run_command", map[string]any{"command": line})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.ok"), true)
	return text
}

// ---------------------------------------------------------------------------
// ListTools
// ---------------------------------------------------------------------------

func TestListTools(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	result, err := cl.ListTools(context.Background(), mcp.ListToolsRequest{})
	c.Assert(err, qt.IsNil)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	c.Assert(names, qt.HasLen, 4)
	for _, want := range []string{"contacts_search", "notes_search", "tags_list", "run_command"} {
		c.Assert(names, qt.Contains, want)
	}
}

// ---------------------------------------------------------------------------
// run_command
// ---------------------------------------------------------------------------

func TestRunCommand_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl, svc := newMCPClient(c)

	text := runCommand(c, cl, "add-contact Jane --phone=5551234567")
	c.Assert(text, checkers.JSONPathEquals("$.command"), "add-contact")
	c.Assert(text, checkers.JSONPathEquals("$.method"), "exact")
	c.Assert(text, checkers.JSONPathEquals("$.output"), "Contact \"Jane\" added.\n")
	c.Assert(svc.Contacts.Dirty(), qt.IsFalse)

	text = runCommand(c, cl, "lst-contacts")
	c.Assert(text, checkers.JSONPathEquals("$.command"), "list-contacts")
	c.Assert(text, checkers.JSONPathEquals("$.method"), "fuzzy")
}

func TestRunCommand_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	c.Run("command error is reported in the result", func(c *qt.C) {
		text, isErr := callTool(c, cl, "run_command", map[string]any{"command": "delete-contact Nobody"})
		c.Assert(isErr, qt.IsFalse)
		c.Assert(text, checkers.JSONPathEquals("$.ok"), false)
		c.Assert(text, checkers.JSONPathEquals("$.command"), "delete-contact")
	})

	c.Run("clean without --yes is refused", func(c *qt.C) {
		runCommand(c, cl, "add-contact Jane")
		text, _ := callTool(c, cl, "run_command", map[string]any{"command": "clean-contacts"})
		c.Assert(text, checkers.JSONPathEquals("$.ok"), false)
		runCommand(c, cl, "clean-contacts --yes")
	})

	c.Run("blank line is a tool error", func(c *qt.C) {
		_, isErr := callTool(c, cl, "run_command", map[string]any{"command": "   "})
		c.Assert(isErr, qt.IsTrue)
	})

	c.Run("missing command is a tool error", func(c *qt.C) {
		_, isErr := callTool(c, cl, "run_command", map[string]any{})
		c.Assert(isErr, qt.IsTrue)
	})
}

// ---------------------------------------------------------------------------
// Search tools
// ---------------------------------------------------------------------------

func TestSearchTools(t *testing.T) {
	c := qt.New(t)
	cl, _ := newMCPClient(c)

	runCommand(c, cl, "add-contact Jane Doe --email=jane@example.com")
	runCommand(c, cl, "add-contact John Smith")
	runCommand(c, cl, `add-note "buy milk" shopping home`)
	runCommand(c, cl, `add-note "fix the sink" home`)

	text, _ := callTool(c, cl, "contacts_search", map[string]any{"query": "example.com"})
	c.Assert(text, checkers.JSONPathEquals("$.total"), float64(1))
	c.Assert(text, checkers.JSONPathEquals("$.contacts[0].name"), "Jane Doe")
	c.Assert(text, checkers.JSONPathEquals("$.contacts[0].emails[0]"), "jane@example.com")

	text, _ = callTool(c, cl, "contacts_search", map[string]any{})
	c.Assert(text, checkers.JSONPathEquals("$.total"), float64(2))

	text, _ = callTool(c, cl, "notes_search", map[string]any{"tag": "home", "limit": 1})
	c.Assert(text, checkers.JSONPathEquals("$.total"), float64(2))
	c.Assert(text, checkers.JSONPathEquals("$.showing"), float64(1))
	c.Assert(text, checkers.JSONPathEquals("$.notes[0].content"), "fix the sink")

	text, _ = callTool(c, cl, "notes_search", map[string]any{"query": "milk"})
	c.Assert(text, checkers.JSONPathEquals("$.notes[0].tags"), []any{"home", "shopping"})

	text, _ = callTool(c, cl, "tags_list", nil)
	c.Assert(text, checkers.JSONPathEquals("$.total"), float64(2))
	c.Assert(text, checkers.JSONPathEquals("$.tags[0].tag"), "home")
	c.Assert(text, checkers.JSONPathEquals("$.tags[0].count"), float64(2))
}
