package yamlgraph

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/patchgrid/internal/config"
	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/vk/patchgrid/internal/fsutil"
	"github.com/xeipuuv/gojsonschema"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Loader implements config.Loader for YAML and JSON documents.
type Loader struct{}

// NewLoader creates a new YAML/JSON loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

// Load discovers every document under paths and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, l.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML/JSON files.", "count", len(files))

	models := make([]*config.Model, 0, len(files))
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		m, err := l.Parse(ctx, src, file)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return config.Merge(models...)
}

// Parse validates and translates one document. JSON is accepted as well,
// being a subset of YAML.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)

	model := config.NewModel()
	var generic any
	if err := yaml.Unmarshal(src, &generic); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if generic == nil {
		logger.Debug("Skipping document without content.")
		return model, nil
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("invalid document %s: %w", filename, err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	for _, od := range doc.Operators {
		def, err := translateOperator(od, filename)
		if err != nil {
			return nil, err
		}
		if _, dup := model.Operators[def.Name]; dup {
			return nil, fmt.Errorf("operator '%s' declared twice in %s", def.Name, filename)
		}
		model.Operators[def.Name] = def
	}
	for _, nd := range doc.Nodes {
		n := &config.Node{Key: nd.Key, Operation: nd.Operation}
		if len(nd.Position) == 2 {
			n.Position = &config.Point{X: nd.Position[0], Y: nd.Position[1]}
		}
		model.Graph.Nodes = append(model.Graph.Nodes, n)
	}
	for _, ed := range doc.Edges {
		model.Graph.Edges = append(model.Graph.Edges, &config.Edge{Source: ed.From, Target: ed.To, Port: ed.Port})
	}

	logger.Debug("Parsed document.", "operators", len(model.Operators), "nodes", len(model.Graph.Nodes), "edges", len(model.Graph.Edges))
	return model, nil
}

func validate(doc []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

func translateOperator(od operatorDoc, filename string) (*config.OperatorDefinition, error) {
	defaults, err := decodeDefaults(od.Defaults)
	if err != nil {
		return nil, fmt.Errorf("invalid defaults for operator '%s' in %s: %w", od.Name, filename, err)
	}
	if len(defaults) != len(od.Params) {
		return nil, fmt.Errorf("operator '%s' in %s: %d params but %d defaults", od.Name, filename, len(od.Params), len(defaults))
	}

	expr, diags := hclsyntax.ParseExpression([]byte(od.Expr), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid expr for operator '%s' in %s: %w", od.Name, filename, diags)
	}

	return &config.OperatorDefinition{
		Name:        od.Name,
		Description: od.Description,
		Params:      od.Params,
		Defaults:    defaults,
		Expr:        expr,
		Source:      filename,
	}, nil
}

// decodeDefaults turns a JSON array into one cty value per element, keeping
// each element's own implied type.
func decodeDefaults(raw json.RawMessage) ([]cty.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return nil, err
	}
	val, err := ctyjson.Unmarshal(raw, ty)
	if err != nil {
		return nil, err
	}
	var out []cty.Value
	for it := val.ElementIterator(); it.Next(); {
		_, el := it.Element()
		out = append(out, el)
	}
	return out, nil
}
