// Package hcl provides the HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing and translating
// `operator`, `node` and `edge` blocks into the format-agnostic model.
//
// Example:
//
//	operator "double" {
//	  description = "Doubles its input."
//	  params      = ["x"]
//	  defaults    = [1]
//	  expr        = x * 2
//	}
//
//	node "a" { operation = "add" }
//	node "b" {
//	  operation = "double"
//	  position  = [120, 40]
//	}
//
//	edge {
//	  from = "a"
//	  to   = "b"
//	  port = 0
//	}
package hcl
