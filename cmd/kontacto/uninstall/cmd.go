// Package uninstallcmd implements the `kontacto uninstall` command group.
package uninstallcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	setupcmd "github.com/go-ports/kontacto/cmd/kontacto/setup"
	"github.com/go-ports/kontacto/cmd/kontacto/shared"
	"github.com/go-ports/kontacto/internal/setup"
)

// Command implements `kontacto uninstall`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the uninstall command group with one subcommand per agent.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the Kontacto MCP server from an agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, agent := range setup.Agents {
		c.cmd.AddCommand(newAgent(agent))
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func newAgent(agent string) *cobra.Command {
	var configPath string
	var project bool
	cmd := &cobra.Command{
		Use:   agent,
		Short: fmt.Sprintf("Remove the Kontacto MCP server from %s", agent),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := setupcmd.TargetPath(agent, configPath, project)
			if err != nil {
				return err
			}
			result, err := setup.Uninstall(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the agent's MCP config file")
	cmd.Flags().BoolVar(&project, "project", false, "Remove from the current project instead of globally")
	return cmd
}
