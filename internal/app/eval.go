package app

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"
)

// Result is the evaluated output of one target node.
type Result struct {
	Node  string
	Value cty.Value
}

// Eval evaluates the colimit at every target concurrently, with at most
// Config.Workers evaluations in flight. Without args every open port takes
// its default; otherwise args fill the open ports of each target in
// signature order. Results come back in target order. The first failure
// cancels the remaining evaluations.
func (a *App) Eval(ctx context.Context, targets []string, args ...cty.Value) ([]Result, error) {
	ctx = a.Context(ctx)
	a.logger.Debug("Evaluation started.", "targets", targets, "args", len(args), "workers", a.config.Workers)

	results := make([]Result, len(targets))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.config.Workers)

	for i, target := range targets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := a.graph.Evaluate(ctxlog.With(ctx, "target", target), target, args...)
			if err != nil {
				return fmt.Errorf("failed to evaluate '%s': %w", target, err)
			}
			results[i] = Result{Node: target, Value: v}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	a.logger.Info("Evaluation finished.", "targets", len(targets))
	return results, nil
}

// WriteResults prints one `node = <json>` line per result.
func WriteResults(w io.Writer, results []Result) error {
	for _, r := range results {
		s, err := FormatValue(r.Value)
		if err != nil {
			return fmt.Errorf("failed to format '%s': %w", r.Node, err)
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", r.Node, s); err != nil {
			return err
		}
	}
	return nil
}
