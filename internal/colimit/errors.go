package colimit

import "fmt"

// OperatorError reports a node whose operation cannot be resolved to a
// usable operator.
type OperatorError struct {
	Node      string
	Operation string
	Err       error
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("node '%s': operation '%s': %v", e.Node, e.Operation, e.Err)
}

func (e *OperatorError) Unwrap() error { return e.Err }

// PortError reports an edge into a port the target's operator does not have.
type PortError struct {
	Node  string
	Port  int
	Arity int
}

func (e *PortError) Error() string {
	return fmt.Sprintf("node '%s': edge targets port %d but the operator takes %d input(s)", e.Node, e.Port, e.Arity)
}

// EvalError wraps a failure raised by a node's operation while a compiled
// function runs.
type EvalError struct {
	Node string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating node '%s': %v", e.Node, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
