package hcl

import (
	"context"
	"fmt"

	"github.com/vk/patchgrid/internal/config"
	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// translateOperator converts an operator block into the agnostic model,
// evaluating its defaults as literals.
func translateOperator(ctx context.Context, b *OperatorBlock, filename string) (*config.OperatorDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("operator", b.Name, "file", filename)
	logger.Debug("Translating HCL operator to internal config model.")

	if !isExprDefined(b.Expr) {
		return nil, fmt.Errorf("operator '%s' in %s: expr is required", b.Name, filename)
	}

	var defaults []cty.Value
	if isExprDefined(b.Defaults) {
		val, diags := b.Defaults.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid defaults for operator '%s' in %s: %w", b.Name, filename, diags)
		}
		ty := val.Type()
		if !ty.IsTupleType() && !ty.IsListType() {
			return nil, fmt.Errorf("defaults of operator '%s' in %s must be a list, got %s", b.Name, filename, ty.FriendlyName())
		}
		for it := val.ElementIterator(); it.Next(); {
			_, el := it.Element()
			defaults = append(defaults, el)
		}
	}

	if len(defaults) != len(b.Params) {
		return nil, fmt.Errorf("operator '%s' in %s: %d params but %d defaults", b.Name, filename, len(b.Params), len(defaults))
	}

	return &config.OperatorDefinition{
		Name:        b.Name,
		Description: b.Description,
		Params:      b.Params,
		Defaults:    defaults,
		Expr:        b.Expr,
		Source:      filename,
	}, nil
}

// translateNode converts a node block into the agnostic model.
func translateNode(b *NodeBlock, filename string) (*config.Node, error) {
	n := &config.Node{Key: b.Key, Operation: b.Operation}
	switch len(b.Position) {
	case 0:
	case 2:
		n.Position = &config.Point{X: b.Position[0], Y: b.Position[1]}
	default:
		return nil, fmt.Errorf("node '%s' in %s: position must have 2 components, got %d", b.Key, filename, len(b.Position))
	}
	return n, nil
}

// translateEdge converts an edge block into the agnostic model.
func translateEdge(b *EdgeBlock) *config.Edge {
	e := &config.Edge{Source: b.From, Target: b.To}
	if b.Port != nil {
		e.Port = *b.Port
	}
	return e
}
