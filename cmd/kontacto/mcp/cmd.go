// Package mcpcmd implements the `kontacto mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/kontacto/cmd/kontacto/shared"
	internalmcp "github.com/go-ports/kontacto/internal/mcp"
)

// Command implements `kontacto mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the Kontacto MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home, _ := c.ctx.ResolveHome()
	return internalmcp.Serve(cmd.Context(), home)
}
