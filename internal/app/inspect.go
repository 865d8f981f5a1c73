package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vk/patchgrid/internal/graph"
	"github.com/vk/patchgrid/internal/registry"
)

// Inspect describes where a node sits in the graph.
func (a *App) Inspect(ctx context.Context, node string) (*graph.Inspection, error) {
	return a.graph.Inspect(a.Context(ctx), node)
}

// WriteInspection prints an inspection in a line-oriented format.
func WriteInspection(w io.Writer, in *graph.Inspection) error {
	ports := make([]string, len(in.Ports))
	for i, p := range in.Ports {
		def, err := FormatValue(in.Defaults[i])
		if err != nil {
			return err
		}
		ports[i] = fmt.Sprintf("%s=%s", p, def)
	}

	_, err := fmt.Fprintf(w, "node: %s\noperation: %s\nupstream: %s\nterminals: %s\ndescendants: %s\nports: %s\n",
		in.Node,
		in.Operation,
		list(in.Upstream),
		list(in.Terminals),
		list(in.Descendants),
		list(ports),
	)
	return err
}

// WriteOperators prints every registered operator with its arity and
// defaults. Operators declared in graph files name the file they came from.
// A last line lists the functions available to expressions.
func (a *App) WriteOperators(w io.Writer) error {
	reg := a.registry
	for _, name := range reg.Names() {
		op, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		defaults, err := op.DefaultValues()
		if err != nil {
			return err
		}
		vals := make([]string, len(defaults))
		for i, d := range defaults {
			if vals[i], err = FormatValue(d); err != nil {
				return err
			}
		}
		line := fmt.Sprintf("%s/%d [%s]", name, op.Arity(), strings.Join(vals, ", "))
		if op.Description != "" {
			line += "  " + op.Description
		}
		if def, ok := a.model.Operators[name]; ok && def.Source != "" {
			line += fmt.Sprintf("  (from %s)", def.Source)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "expression functions: %s\n", list(registry.ExpressionFunctions()))
	return err
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
