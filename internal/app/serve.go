package app

import (
	"context"
	"fmt"

	"github.com/vk/patchgrid/internal/publish"
)

// Serve keeps the graph live until ctx is cancelled. It serves /health when
// a port is configured. When a publish URL is configured it mirrors every
// change to the editor and applies the edits the editor sends back. ready,
// when not nil, receives the health check address (empty when disabled) once
// everything is up.
func (a *App) Serve(ctx context.Context, ready chan<- string) error {
	ctx = a.Context(ctx)

	var addr string
	if a.config.HealthcheckPort > 0 {
		var err error
		if addr, err = a.startHealthcheckServer(a.config.HealthcheckPort); err != nil {
			return err
		}
		defer a.closeHealthCheckServer()
	} else {
		a.logger.Warn("Health check server not started: disabled")
	}

	if a.config.PublishURL != "" {
		pub, err := publish.Connect(ctx, publish.Options{
			URL:                a.config.PublishURL,
			Namespace:          a.config.PublishNamespace,
			InsecureSkipVerify: a.config.PublishInsecure,
		})
		if err != nil {
			return fmt.Errorf("failed to connect publisher: %w", err)
		}
		defer pub.Close()
		if err := pub.Attach(ctx, a.graph); err != nil {
			return err
		}
		if err := pub.Listen(ctx, a.graph); err != nil {
			return err
		}
	}

	a.logger.Info("🚀 Serving graph.", "nodes", a.graph.Snapshot(ctx).Len())
	if ready != nil {
		ready <- addr
	}

	<-ctx.Done()
	a.logger.Info("🏁 Shutting down.")
	return nil
}
