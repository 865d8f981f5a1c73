package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/patchgrid/internal/config"
	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/vk/patchgrid/internal/graph"
	"github.com/vk/patchgrid/internal/hcl"
	"github.com/vk/patchgrid/internal/inmemorystore"
	"github.com/vk/patchgrid/internal/inmemorytopology"
	"github.com/vk/patchgrid/internal/registry"
	"github.com/vk/patchgrid/internal/yamlgraph"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	model      *config.Model
	graph      *graph.Manager
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It builds an isolated
// logger writing to logW, registers the operator modules (the core set when
// none are given), loads every graph document under cfg.Paths and builds the
// live graph.
func NewApp(logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loadModel(ctx, cfg.Paths, hcl.NewLoader(), yamlgraph.NewLoader())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(model); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded and validated.", "operators", len(model.Operators), "nodes", len(model.Graph.Nodes))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	if err := reg.PopulateDefinitionsFromModel(ctx, model); err != nil {
		return nil, err
	}
	if err := reg.ValidateRegistry(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.", "operators", reg.Len())

	g := graph.New(inmemorytopology.New(), inmemorystore.New(), reg)
	if err := g.Load(ctx, model.Graph); err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}
	if len(model.Graph.Nodes) == 0 {
		logger.Warn("No nodes found in the given paths.", "paths", cfg.Paths)
	}
	logger.Info("Graph loaded.", "nodes", len(model.Graph.Nodes), "edges", len(model.Graph.Edges))

	return &App{
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		registry: reg,
		model:    model,
		graph:    g,
	}, nil
}

// loadModel runs every loader over the same paths and merges the results.
func loadModel(ctx context.Context, paths []string, loaders ...config.Loader) (*config.Model, error) {
	models := make([]*config.Model, 0, len(loaders))
	for _, l := range loaders {
		m, err := l.Load(ctx, paths...)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return config.Merge(models...)
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Graph returns the live graph.
func (a *App) Graph() *graph.Manager {
	return a.graph
}

// Context returns a copy of ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
