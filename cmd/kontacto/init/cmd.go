// Package initcmd implements the `kontacto init` command.
package initcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/go-ports/kontacto/cmd/kontacto/shared"
	"github.com/go-ports/kontacto/internal/config"
)

// Command implements `kontacto init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize the data directory",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home, _ := c.ctx.ResolveHome()
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if _, err := config.WriteDefault(filepath.Join(home, config.FileName), false); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Kontacto data directory initialized at %s\n", home)
	return nil
}
