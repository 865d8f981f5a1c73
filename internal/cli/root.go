package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vk/patchgrid/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

func (g *globalFlags) config(paths []string) app.Config {
	return app.Config{
		Paths:     paths,
		LogLevel:  g.logLevel,
		LogFormat: g.logFormat,
	}
}

// NewRootCommand builds the patchgrid command tree. Results go to stdout and
// logs to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "patchgrid",
		Short: "Compose operator graphs into single functions and evaluate them",
		Long: `patchgrid loads operator graphs from .hcl, .yaml, .yml or .json files,
compiles the upstream closure of a node into one function and evaluates it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Logging level: debug, info, warn or error.")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log output format: text or json.")

	root.AddCommand(
		newEvalCommand(flags, stdout, stderr),
		newInspectCommand(flags, stdout, stderr),
		newOperatorsCommand(flags, stdout, stderr),
		newServeCommand(flags, stderr),
	)
	return root
}

// Execute runs the command tree with args. Every returned error is an
// *ExitError.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	slog.Debug("CLI parser started.", "args", args)
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError(err)
}

// newApp validates the configuration and builds the application. Invalid
// flag values are usage errors.
func newApp(raw app.Config, stderr io.Writer) (*app.App, error) {
	cfg, err := app.NewConfig(raw)
	if err != nil {
		return nil, usageError(err)
	}
	a, err := app.NewApp(stderr, cfg)
	if err != nil {
		return nil, runtimeError(err)
	}
	return a, nil
}
