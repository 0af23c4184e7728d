// Package mcp provides the stdio MCP server exposing the address book and
// notes to agents.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/kontacto/internal/buildinfo"
	"github.com/go-ports/kontacto/internal/commands"
	"github.com/go-ports/kontacto/internal/models"
	"github.com/go-ports/kontacto/internal/service"
)

const (
	defaultNoteLimit = 20
	dateLayout       = "2006-01-02"
)

const runCommandDescription = `Run one kontacto shell command line, exactly as typed at the kontacto> prompt, and return its output. Misspelled command names are resolved fuzzily. Call with command "help" to list the available commands. Commands that delete everything (clean-contacts, clean-notes, clean-tags) need --yes.` //nolint:lll

// NewServer creates and registers all tools on a new MCP server. Tool calls
// are serialised because the collections are not safe for concurrent use.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("kontacto", buildinfo.Version)
	registerTools(s, &handlers{svc: svc})
	return s
}

// Serve starts the stdio MCP server over the data home, blocking until stdin
// closes. Pending changes are flushed on return.
func Serve(ctx context.Context, home string) (err error) {
	svc, err := service.New(ctx, home)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer func() {
		if cerr := svc.Close(context.WithoutCancel(ctx)); err == nil && cerr != nil {
			err = fmt.Errorf("mcp: close service: %w", cerr)
		}
	}()

	return mcpserver.ServeStdio(NewServer(svc))
}

type handlers struct {
	mu  sync.Mutex
	svc *service.Service
}

type toolFunc func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// locked runs fn while holding the service lock.
func (h *handlers) locked(fn toolFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		return fn(ctx, req)
	}
}

// registerTools wires all four MCP tools into the server.
func registerTools(s *mcpserver.MCPServer, h *handlers) {
	s.AddTool(mcp.NewTool("contacts_search",
		mcp.WithDescription("Search contacts by name, phone, email or address. An empty query lists every contact."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring to look for."),
		),
	), h.locked(h.contactsSearch))

	s.AddTool(mcp.NewTool("notes_search",
		mcp.WithDescription("Search notes by content or tag. Returns the newest notes first."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring of the content or a tag."),
		),
		mcp.WithString("tag",
			mcp.Description("Only notes carrying this tag."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default 20)"),
		),
	), h.locked(h.notesSearch))

	s.AddTool(mcp.NewTool("tags_list",
		mcp.WithDescription("List every tag in use with the number of notes carrying it."),
	), h.locked(h.tagsList))

	s.AddTool(mcp.NewTool("run_command",
		mcp.WithDescription(runCommandDescription),
		mcp.WithString("command",
			mcp.Description("The command line, e.g. `add-note \"buy milk\" shopping`."),
			mcp.Required(),
		),
	), h.locked(h.runCommand))
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func (h *handlers) contactsSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contacts := h.svc.SearchContacts(req.GetString("query", ""))
	today := models.Today()

	out := make([]map[string]any, 0, len(contacts))
	for _, ct := range contacts {
		m := map[string]any{
			"name":    ct.Name,
			"address": ct.Address,
			"phones":  nonNil(ct.Phones),
			"emails":  nonNil(ct.Emails),
		}
		if ct.Birthday != nil {
			m["birthday"] = ct.Birthday.String()
			if days, ok := ct.DaysUntilBirthday(today); ok {
				m["days_until_birthday"] = days
			}
		}
		out = append(out, m)
	}
	return jsonResult(map[string]any{
		"total":    len(out),
		"contacts": out,
	})
}

func (h *handlers) notesSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultNoteLimit)
	if limit <= 0 {
		limit = defaultNoteLimit
	}
	notes := h.svc.SearchNotes(req.GetString("query", ""), req.GetString("tag", ""))
	total := len(notes)

	out := make([]map[string]any, 0, min(limit, total))
	for i := total - 1; i >= 0 && len(out) < limit; i-- {
		n := notes[i]
		out = append(out, map[string]any{
			"id":       n.ID,
			"short_id": n.ShortID(),
			"content":  n.Content,
			"tags":     nonNil(n.Tags),
			"created":  formatDate(n.CreatedAt),
		})
	}
	return jsonResult(map[string]any{
		"total":   total,
		"showing": len(out),
		"notes":   out,
	})
}

func (h *handlers) tagsList(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts := h.svc.TagCounts()
	out := make([]map[string]any, 0, len(counts))
	for _, tc := range counts {
		out = append(out, map[string]any{"tag": tc.Tag, "count": tc.Count})
	}
	return jsonResult(map[string]any{
		"total": len(out),
		"tags":  out,
	})
}

func (h *handlers) runCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := req.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var buf bytes.Buffer
	res, runErr := h.svc.Session(&buf, nil).Run(line)
	if errors.Is(runErr, commands.ErrExit) {
		runErr = nil
	}
	if res == nil && runErr == nil {
		return mcp.NewToolResultError("command: empty command line"), nil
	}
	saveErr := h.svc.SaveDirty(ctx)

	result := map[string]any{
		"ok":     runErr == nil && saveErr == nil,
		"output": buf.String(),
	}
	if res != nil {
		result["command"] = res.Spec.Name
		result["method"] = res.Method.String()
	}
	switch {
	case runErr != nil:
		result["error"] = runErr.Error()
	case saveErr != nil:
		result["error"] = saveErr.Error()
	}
	return jsonResult(result)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return make([]string, 0)
	}
	return s
}

func formatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}
