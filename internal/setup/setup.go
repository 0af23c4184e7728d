// Package setup registers the kontacto MCP server with coding agents that
// read an mcpServers JSON file (Claude Code, Cursor).
package setup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ServerName is the key of the kontacto entry under mcpServers.
const ServerName = "kontacto"

// Supported agents.
const (
	ClaudeCode = "claude-code"
	Cursor     = "cursor"
)

// Agents lists the supported agents.
var Agents = []string{ClaudeCode, Cursor}

// ErrUnknownAgent is returned for an agent name not in Agents.
var ErrUnknownAgent = errors.New("unknown agent")

// Result is the return value from Install and Uninstall.
type Result struct {
	Changed bool
	Path    string
	Message string
}

// ServerEntry returns the mcpServers entry that starts `kontacto mcp`,
// passing extra arguments (such as --home) after the subcommand.
func ServerEntry(extra ...string) map[string]any {
	args := []any{"mcp"}
	for _, a := range extra {
		args = append(args, a)
	}
	return map[string]any{
		"command": "kontacto",
		"args":    args,
		"type":    "stdio",
	}
}

// ---------------------------------------------------------------------------
// Path helpers
// ---------------------------------------------------------------------------

// ConfigPath returns the MCP config file of agent. With project set the file
// lives under dir (usually the working directory); otherwise under the
// user's home directory userHome.
//
//revive:disable:flag-parameter
func ConfigPath(agent string, project bool, dir, userHome string) (string, error) {
	if !IsAgent(agent) {
		return "", fmt.Errorf("%w %q (want one of %v)", ErrUnknownAgent, agent, Agents)
	}
	base := userHome
	if project {
		base = dir
	}
	switch agent {
	case ClaudeCode:
		if project {
			return filepath.Join(base, ".mcp.json"), nil
		}
		return filepath.Join(base, ".claude.json"), nil
	default:
		return filepath.Join(base, ".cursor", "mcp.json"), nil
	}
}

//revive:enable:flag-parameter

// IsAgent reports whether name is a supported agent.
func IsAgent(name string) bool { return slices.Contains(Agents, name) }

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

// readJSON returns the object stored at path; a missing file is empty and a
// file that is not a JSON object is an error so it is never overwritten.
func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

func writeJSON(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent config files (MCP server entries) do not contain secrets
}

// ---------------------------------------------------------------------------
// Install / Uninstall
// ---------------------------------------------------------------------------

// Install adds entry under mcpServers.kontacto in the JSON file at path,
// keeping every other key. An existing kontacto entry is left alone.
func Install(path string, entry map[string]any) (Result, error) {
	data, err := readJSON(path)
	if err != nil {
		return Result{}, fmt.Errorf("setup.Install: %w", err)
	}
	servers, _ := data["mcpServers"].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
		data["mcpServers"] = servers
	}
	if _, exists := servers[ServerName]; exists {
		return Result{Path: path, Message: "Already installed in " + path}, nil
	}
	servers[ServerName] = entry
	if err := writeJSON(path, data); err != nil {
		return Result{}, fmt.Errorf("setup.Install: %w", err)
	}
	return Result{Changed: true, Path: path, Message: "Installed MCP server in " + path}, nil
}

// Uninstall removes mcpServers.kontacto from the JSON file at path. A file
// left without keys is deleted.
func Uninstall(path string) (Result, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Result{Path: path, Message: "Nothing to remove"}, nil
	}
	data, err := readJSON(path)
	if err != nil {
		return Result{}, fmt.Errorf("setup.Uninstall: %w", err)
	}
	servers, _ := data["mcpServers"].(map[string]any)
	if _, exists := servers[ServerName]; !exists {
		return Result{Path: path, Message: "Nothing to remove"}, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(data, "mcpServers")
	}

	if len(data) == 0 {
		err = os.Remove(path)
	} else {
		err = writeJSON(path, data)
	}
	if err != nil {
		return Result{}, fmt.Errorf("setup.Uninstall: %w", err)
	}
	return Result{Changed: true, Path: path, Message: "Removed MCP server from " + path}, nil
}
