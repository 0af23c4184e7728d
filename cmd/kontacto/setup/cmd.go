// Package setupcmd implements the `kontacto setup` command group.
package setupcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ports/kontacto/cmd/kontacto/shared"
	"github.com/go-ports/kontacto/internal/setup"
)

// Command implements `kontacto setup`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the setup command group with one subcommand per agent.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "setup",
		Short: "Register the Kontacto MCP server with an agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, agent := range setup.Agents {
		c.cmd.AddCommand(c.newAgent(agent))
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) newAgent(agent string) *cobra.Command {
	var configPath string
	var project bool
	cmd := &cobra.Command{
		Use:   agent,
		Short: fmt.Sprintf("Install the Kontacto MCP server into %s", agent),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := TargetPath(agent, configPath, project)
			if err != nil {
				return err
			}
			var extra []string
			if home, source := c.ctx.ResolveHome(); source == "flag" {
				extra = []string{"--home", home}
			}
			result, err := setup.Install(path, setup.ServerEntry(extra...))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to the agent's MCP config file")
	cmd.Flags().BoolVar(&project, "project", false, "Install in the current project instead of globally")
	return cmd
}

// TargetPath returns the MCP config file to edit: configPath when set,
// else the agent's project or user file.
//
//revive:disable:flag-parameter
func TargetPath(agent, configPath string, project bool) (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return setup.ConfigPath(agent, project, cwd, home)
}

//revive:enable:flag-parameter
