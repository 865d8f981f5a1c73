// Package yamlgraph loads graph documents written in YAML or JSON. Every
// document is checked against an embedded JSON Schema before it is decoded,
// so structural mistakes are reported together and with their location.
//
//	operators:
//	  - name: double
//	    params: [x]
//	    defaults: [1]
//	    expr: "x * 2"
//	nodes:
//	  - key: a
//	    operation: add
//	  - key: b
//	    operation: double
//	    position: [120, 40]
//	edges:
//	  - from: a
//	    to: b
//	    port: 0
package yamlgraph
