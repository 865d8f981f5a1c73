package config

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks a model for structural mistakes that can be detected
// without the operator registry: empty or duplicate node keys, edges that
// reference unknown nodes, negative ports, two edges into the same port and
// operator definitions whose defaults do not match their params. All problems
// are reported at once.
func Validate(m *Model) error {
	var errs []string

	names := make([]string, 0, len(m.Operators))
	for name := range m.Operators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		def := m.Operators[name]
		if len(def.Defaults) != len(def.Params) {
			errs = append(errs, fmt.Sprintf("operator '%s': %d params but %d defaults", name, len(def.Params), len(def.Defaults)))
		}
		if def.Expr == nil {
			errs = append(errs, fmt.Sprintf("operator '%s': missing expr", name))
		}
		seen := make(map[string]struct{}, len(def.Params))
		for _, p := range def.Params {
			if _, dup := seen[p]; dup {
				errs = append(errs, fmt.Sprintf("operator '%s': duplicate param '%s'", name, p))
			}
			seen[p] = struct{}{}
		}
	}

	if m.Graph != nil {
		keys := make(map[string]struct{}, len(m.Graph.Nodes))
		for _, n := range m.Graph.Nodes {
			switch {
			case n.Key == "":
				errs = append(errs, "node with empty key")
				continue
			case n.Operation == "":
				errs = append(errs, fmt.Sprintf("node '%s': missing operation", n.Key))
			}
			if _, dup := keys[n.Key]; dup {
				errs = append(errs, fmt.Sprintf("node '%s' declared twice", n.Key))
			}
			keys[n.Key] = struct{}{}
		}

		ports := make(map[string]string)
		for _, e := range m.Graph.Edges {
			if _, ok := keys[e.Source]; !ok {
				errs = append(errs, fmt.Sprintf("edge %s -> %s: unknown source node", e.Source, e.Target))
			}
			if _, ok := keys[e.Target]; !ok {
				errs = append(errs, fmt.Sprintf("edge %s -> %s: unknown target node", e.Source, e.Target))
			}
			if e.Port < 0 {
				errs = append(errs, fmt.Sprintf("edge %s -> %s: negative port %d", e.Source, e.Target, e.Port))
				continue
			}
			slot := fmt.Sprintf("%s[%d]", e.Target, e.Port)
			if prev, taken := ports[slot]; taken {
				errs = append(errs, fmt.Sprintf("edge %s -> %s: port %d already fed by '%s'", e.Source, e.Target, e.Port, prev))
			}
			ports[slot] = e.Source
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
