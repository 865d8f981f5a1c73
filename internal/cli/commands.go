package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/patchgrid/internal/app"
	"github.com/zclconf/go-cty/cty"
)

func newEvalCommand(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		nodes   []string
		rawArgs []string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "eval PATH...",
		Short: "Evaluate the composed function at one or more nodes",
		Long: `Evaluates the colimit at every --node and prints "node = <json>".
Without --arg every unconnected port takes its operator's default. With --arg,
the JSON values fill the unconnected ports in signature order (see inspect).`,
		Example: `  patchgrid eval ./graph --node out
  patchgrid eval graph.hcl --node b --arg 2 --arg 5 --arg 10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			args := make([]cty.Value, len(rawArgs))
			for i, raw := range rawArgs {
				v, err := app.ParseValue(raw)
				if err != nil {
					return usageError(err)
				}
				args[i] = v
			}

			raw := flags.config(paths)
			raw.Workers = workers
			a, err := newApp(raw, stderr)
			if err != nil {
				return err
			}

			results, err := a.Eval(cmd.Context(), nodes, args...)
			if err != nil {
				return runtimeError(err)
			}
			return runtimeError(app.WriteResults(stdout, results))
		},
	}
	cmd.Flags().StringArrayVar(&nodes, "node", nil, "Node to evaluate. Repeatable.")
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "JSON value for the next open port. Repeatable.")
	cmd.Flags().IntVar(&workers, "workers", app.DefaultWorkers, "Maximum number of nodes evaluated at once.")
	_ = cmd.MarkFlagRequired("node")
	return cmd
}

func newInspectCommand(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var node string

	cmd := &cobra.Command{
		Use:   "inspect PATH...",
		Short: "Show a node's upstream closure, descendants and open ports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			a, err := newApp(flags.config(paths), stderr)
			if err != nil {
				return err
			}
			in, err := a.Inspect(cmd.Context(), node)
			if err != nil {
				return runtimeError(err)
			}
			return runtimeError(app.WriteInspection(stdout, in))
		},
	}
	cmd.Flags().StringVar(&node, "node", "", "Node to inspect.")
	_ = cmd.MarkFlagRequired("node")
	return cmd
}

func newOperatorsCommand(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "operators [PATH...]",
		Short: "List built-in operators and those declared under PATH",
		RunE: func(cmd *cobra.Command, paths []string) error {
			a, err := newApp(flags.config(paths), stderr)
			if err != nil {
				return err
			}
			return runtimeError(a.WriteOperators(stdout))
		},
	}
}

func newServeCommand(flags *globalFlags, stderr io.Writer) *cobra.Command {
	var (
		healthPort int
		publishURL string
		namespace  string
		insecure   bool
	)

	cmd := &cobra.Command{
		Use:   "serve PATH...",
		Short: "Keep the graph live, publish changes and serve /health",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			raw := flags.config(paths)
			raw.HealthcheckPort = healthPort
			raw.PublishURL = publishURL
			raw.PublishNamespace = namespace
			raw.PublishInsecure = insecure
			a, err := newApp(raw, stderr)
			if err != nil {
				return err
			}

			// Runs until the command context is cancelled; main cancels it on
			// SIGINT or SIGTERM.
			if err := a.Serve(cmd.Context(), nil); err != nil {
				return runtimeError(fmt.Errorf("serve: %w", err))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&healthPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	cmd.Flags().StringVar(&publishURL, "publish-url", "", "Socket.IO URL of an editor to mirror changes to.")
	cmd.Flags().StringVar(&namespace, "publish-namespace", "/", "Socket.IO namespace used for publishing.")
	cmd.Flags().BoolVar(&insecure, "publish-insecure", false, "Skip TLS certificate verification when publishing.")
	return cmd
}
