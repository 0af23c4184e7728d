// Package execcmd implements the `kontacto exec` command.
package execcmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-ports/kontacto/cmd/kontacto/shared"
	"github.com/go-ports/kontacto/internal/commands"
)

// Command implements `kontacto exec`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the exec command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "exec <command line...>",
		Short: "Run one shell command line and exit",
		Long: `Run one shell command line, save, and exit.

Pass the line as one quoted argument, or separate it with -- when it
carries options of its own:

  kontacto exec "add-note 'buy milk' shopping"
  kontacto exec -- add-contact Jane --phone=5551234567`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) (err error) {
	svc, err := c.ctx.OpenService(cmd.Context())
	if err != nil {
		return err
	}
	defer shared.CloseService(cmd.Context(), svc, &err)

	out := cmd.OutOrStdout()
	sess := svc.Session(out, nil)
	res, err := sess.Resolve(joinArgs(args))
	if notice := commands.FuzzyNotice(res); notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), notice)
	}
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("exec: %w: empty command line", commands.ErrInput)
	}
	if err := sess.Execute(res); err != nil && !errors.Is(err, commands.ErrExit) {
		return err
	}
	return nil
}

// joinArgs rebuilds a command line from shell-split args, quoting the ones
// the tokenizer would split again. A single argument is taken verbatim.
func joinArgs(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		if a != "" && !strings.ContainsAny(a, " \t\"'\\") {
			quoted[i] = a
			continue
		}
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
		quoted[i] = `"` + r.Replace(a) + `"`
	}
	return strings.Join(quoted, " ")
}
