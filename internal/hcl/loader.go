package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/patchgrid/internal/config"
	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/vk/patchgrid/internal/fsutil"
)

// Extension is the file extension handled by this loader.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{Extension}
}

// Load discovers every .hcl file under paths, parses them in lexical order
// and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	models := make([]*config.Model, 0, len(files))
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		m, err := l.parse(ctx, parser, src, file)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}

	model, err := config.Merge(models...)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "operators", len(model.Operators), "nodes", len(model.Graph.Nodes), "edges", len(model.Graph.Edges))
	return model, nil
}

// Parse translates a single HCL document. filename is only used in
// diagnostics.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	return l.parse(ctx, hclparse.NewParser(), src, filename)
}

func (l *Loader) parse(ctx context.Context, parser *hclparse.Parser, src []byte, filename string) (*config.Model, error) {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	model := config.NewModel()
	for _, block := range root.Operators {
		def, err := translateOperator(ctx, block, filename)
		if err != nil {
			return nil, err
		}
		if _, dup := model.Operators[def.Name]; dup {
			return nil, fmt.Errorf("operator '%s' declared twice in %s", def.Name, filename)
		}
		model.Operators[def.Name] = def
	}
	for _, block := range root.Nodes {
		n, err := translateNode(block, filename)
		if err != nil {
			return nil, err
		}
		model.Graph.Nodes = append(model.Graph.Nodes, n)
	}
	for _, block := range root.Edges {
		model.Graph.Edges = append(model.Graph.Edges, translateEdge(block))
	}
	return model, nil
}

// isExprDefined reports whether an optional expression attribute was present
// in the source. gohcl fills absent ones with a null placeholder.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return true
	}
	return !v.IsNull()
}
