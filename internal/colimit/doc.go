// Package colimit compiles the upstream subgraph of a node into a single
// executable function.
//
// For a chosen node the evaluator walks its upstream closure in dependency
// order. Each node's function is the node's operation fanned in over one
// provider per input port: the already compiled function of the node
// feeding the port, or the operator's default provider when nothing does.
// Nothing is evaluated during compilation; calling the resulting function
// evaluates the whole closure on demand.
//
// In open-port mode unconnected ports are not filled with defaults. They
// become parameters of the compiled function instead, so the caller supplies
// one value per unconnected port of the closure, in the flattened order that
// Ports reports.
package colimit
