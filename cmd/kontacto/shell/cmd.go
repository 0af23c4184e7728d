// Package shellcmd implements the `kontacto shell` command.
package shellcmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/go-ports/kontacto/cmd/kontacto/shared"
	"github.com/go-ports/kontacto/internal/commands"
	"github.com/go-ports/kontacto/internal/render"
	"github.com/go-ports/kontacto/internal/shell"
)

// Command implements `kontacto shell`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the shell command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) (err error) {
	svc, err := c.ctx.OpenService(cmd.Context())
	if err != nil {
		return err
	}
	defer shared.CloseService(cmd.Context(), svc, &err)

	out := cmd.OutOrStdout()
	hist := shell.LoadHistory(svc.HistoryPath(), 0)

	var reader shell.LineReader
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		render.EnableColor(!c.ctx.NoColor)
		reader = shell.NewTerminalReader(f, out, commands.DefaultRegistry(), hist)
	} else {
		reader = shell.NewScannerReader(cmd.InOrStdin(), out)
	}
	return shell.New(svc, reader, out, hist).Run(cmd.Context())
}
