// Package rootcmd wires the root cobra.Command for the kontacto CLI binary.
package rootcmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/kontacto/cmd/kontacto/config"
	execcmd "github.com/go-ports/kontacto/cmd/kontacto/exec"
	initcmd "github.com/go-ports/kontacto/cmd/kontacto/init"
	mcpcmd "github.com/go-ports/kontacto/cmd/kontacto/mcp"
	setupcmd "github.com/go-ports/kontacto/cmd/kontacto/setup"
	"github.com/go-ports/kontacto/cmd/kontacto/shared"
	shellcmd "github.com/go-ports/kontacto/cmd/kontacto/shell"
	uninstallcmd "github.com/go-ports/kontacto/cmd/kontacto/uninstall"
	"github.com/go-ports/kontacto/internal/buildinfo"
)

// New creates and returns the root cobra.Command for the kontacto CLI.
// Without a subcommand it starts the interactive shell.
func New() *cobra.Command {
	ctx := &shared.Context{}
	sh := shellcmd.New(ctx)

	root := &cobra.Command{
		Use:           "kontacto",
		Short:         "Kontacto: contacts and notes in your terminal",
		Version:       buildinfo.Summary(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if ctx.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		RunE: sh.Cmd().RunE,
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override data directory (default: $KONTACTO_HOME env → persisted config → ~/.kontacto)",
	)
	root.PersistentFlags().BoolVarP(&ctx.Verbose, "verbose", "v", false, "Log debug messages to stderr")
	root.PersistentFlags().BoolVar(&ctx.NoColor, "no-color", false, "Disable coloured output")

	root.AddCommand(
		sh.Cmd(),
		execcmd.New(ctx).Cmd(),
		initcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New(ctx).Cmd(),
	)

	return root
}
