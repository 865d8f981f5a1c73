// Package registry is the closed table of operators a graph can reference.
//
// Operators are pure, fixed-arity go-cty functions paired with one default
// provider per input port. Compiled operator families live under modules/
// and add themselves through the Module interface at startup; definitions
// loaded from configuration files become expression operators through
// PopulateDefinitionsFromModel. Once populated, the registry is validated so
// that malformed operators are rejected at construction time rather than
// while a graph is being evaluated.
package registry
