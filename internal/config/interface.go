package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads every matching file under the given paths (files or
	// directories) and translates them into a single format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// Extensions lists the file extensions, including the dot, the loader
	// understands.
	Extensions() []string
}
