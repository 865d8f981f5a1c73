// Package config defines the format-agnostic model of a patchgrid
// definition: the expression operators a user declares and the graph of
// nodes and edges wired from them.
//
// Concrete loaders (internal/hcl for HCL, internal/yamlgraph for YAML and
// JSON) translate their files into a Model; nothing downstream of the loaders
// knows which format a definition came from.
package config
