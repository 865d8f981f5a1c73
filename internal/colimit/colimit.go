package colimit

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/patchgrid/internal/dag"
	"github.com/vk/patchgrid/internal/fanin"
	"github.com/vk/patchgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// OperatorSource resolves operator names. *registry.Registry satisfies it.
type OperatorSource interface {
	Lookup(name string) (*registry.Operator, error)
}

// Map holds one compiled function per node of an upstream closure.
type Map map[string]function.Function

// Keys returns the node keys of the map in lexicographic order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Evaluator compiles colimits against a fixed operator source.
type Evaluator struct {
	Operators OperatorSource
	// OpenPorts makes Colimit leave unconnected ports open instead of
	// filling them with operator defaults.
	OpenPorts bool
}

// New returns an evaluator in default mode.
func New(ops OperatorSource) *Evaluator {
	return &Evaluator{Operators: ops}
}

// Colimit compiles the upstream closure of nodeID. The returned map has
// exactly one entry per node of the closure, nodeID included. The graph is
// only read; callers that share it with writers must pass a snapshot.
func (e *Evaluator) Colimit(g *dag.Graph, nodeID string) (Map, error) {
	return e.compile(g, nodeID, e.OpenPorts)
}

// ColimitOpen is Colimit in open-port mode regardless of e.OpenPorts.
func (e *Evaluator) ColimitOpen(g *dag.Graph, nodeID string) (Map, error) {
	return e.compile(g, nodeID, true)
}

func (e *Evaluator) compile(g *dag.Graph, nodeID string, open bool) (Map, error) {
	upstream, err := g.UpstreamClosure(nodeID)
	if err != nil {
		return nil, err
	}
	order, err := g.TopologicalSortOf(upstream)
	if err != nil {
		return nil, err
	}

	compiled := make(Map, len(order))
	for _, key := range order {
		attrs, _ := g.Node(key)
		op, err := e.Operators.Lookup(attrs.Operation)
		if err != nil {
			return nil, &OperatorError{Node: key, Operation: attrs.Operation, Err: err}
		}
		if err := op.Validate(); err != nil {
			return nil, &OperatorError{Node: key, Operation: attrs.Operation, Err: err}
		}

		arity := op.Arity()
		providers := make([]function.Function, arity)
		filled := make([]bool, arity)

		// InEdges is ordered by edge ID, so when several edges share a
		// port the lowest ID wins.
		in, _ := g.InEdges(key)
		for _, edge := range in {
			if edge.TargetPort >= arity {
				return nil, &PortError{Node: key, Port: edge.TargetPort, Arity: arity}
			}
			if filled[edge.TargetPort] {
				continue
			}
			providers[edge.TargetPort] = compiled[edge.Source]
			filled[edge.TargetPort] = true
		}

		for p := range providers {
			if filled[p] {
				continue
			}
			if open {
				providers[p] = fanin.Identity(PortName(key, p))
			} else {
				providers[p] = op.Defaults[p]
			}
		}

		compiled[key] = fanin.FanIn(providers, annotate(key, op.Operation))
	}
	return compiled, nil
}

// annotate returns a function that accepts any arguments, calls operation
// with them and wraps failures in an *EvalError naming node. Argument type
// errors surface here as well, so a bad value flowing along an edge is
// reported against the node that rejected it.
func annotate(node string, operation function.Function) function.Function {
	inner := operation.Params()
	params := make([]function.Parameter, len(inner))
	for i, p := range inner {
		params[i] = function.Parameter{
			Name:             p.Name,
			Type:             cty.DynamicPseudoType,
			AllowNull:        true,
			AllowUnknown:     true,
			AllowDynamicType: true,
			AllowMarked:      true,
		}
	}

	return function.New(&function.Spec{
		Description: operation.Description(),
		Params:      params,
		Type:        function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			v, err := operation.Call(args)
			if err != nil {
				var evalErr *EvalError
				if errors.As(err, &evalErr) {
					return cty.NilVal, err
				}
				return cty.NilVal, &EvalError{Node: node, Err: err}
			}
			return v, nil
		},
	})
}

// Port identifies one input port of one node.
type Port struct {
	Node  string
	Index int
}

func (p Port) String() string {
	return PortName(p.Node, p.Index)
}

// PortName is the parameter name given to an open port.
func PortName(node string, index int) string {
	return fmt.Sprintf("%s[%d]", node, index)
}

// Ports reads the open-port signature back from a function compiled in
// open-port mode. The order is the order in which the function expects its
// arguments.
func Ports(f function.Function) ([]Port, error) {
	names := fanin.ParamNames(f)
	ports := make([]Port, len(names))
	for i, name := range names {
		open := strings.LastIndexByte(name, '[')
		if open <= 0 || !strings.HasSuffix(name, "]") {
			return nil, fmt.Errorf("parameter %d (%q) is not an open port", i, name)
		}
		index, err := strconv.Atoi(name[open+1 : len(name)-1])
		if err != nil {
			return nil, fmt.Errorf("parameter %d (%q) is not an open port: %w", i, name, err)
		}
		ports[i] = Port{Node: name[:open], Index: index}
	}
	return ports, nil
}

// PortDefaults returns the operator default value for each port, in order.
// Calling an open-port function with these values is equivalent to calling
// the default-mode function with no arguments.
func (e *Evaluator) PortDefaults(g *dag.Graph, ports []Port) ([]cty.Value, error) {
	vals := make([]cty.Value, len(ports))
	for i, port := range ports {
		attrs, ok := g.Node(port.Node)
		if !ok {
			return nil, fmt.Errorf("%w: %s", dag.ErrNodeNotFound, port.Node)
		}
		op, err := e.Operators.Lookup(attrs.Operation)
		if err != nil {
			return nil, &OperatorError{Node: port.Node, Operation: attrs.Operation, Err: err}
		}
		if port.Index < 0 || port.Index >= len(op.Defaults) {
			return nil, &PortError{Node: port.Node, Port: port.Index, Arity: op.Arity()}
		}
		v, err := op.Defaults[port.Index].Call(nil)
		if err != nil {
			return nil, fmt.Errorf("default for %s: %w", port, err)
		}
		vals[i] = v
	}
	return vals, nil
}
