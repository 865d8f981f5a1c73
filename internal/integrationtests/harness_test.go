package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/patchgrid/internal/app"
	"github.com/vk/patchgrid/internal/registry"
	"github.com/vk/patchgrid/internal/testutil"
	"github.com/zclconf/go-cty/cty"
)

// runResult bundles everything a scenario may assert on.
type runResult struct {
	App  *app.App
	Logs *testutil.SafeBuffer
	Err  error
}

// setupApp writes files to a temp dir and builds an app over it with debug
// logging. With no modules the core set is registered.
func setupApp(t *testing.T, files map[string]string, modules ...registry.Module) runResult {
	t.Helper()

	dir := testutil.WriteFiles(t, files)
	cfg, err := app.NewConfig(app.Config{Paths: []string{dir}, LogLevel: "debug", Workers: 4})
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() { testutil.LogTestOutput(t, logs) })

	a, err := app.NewApp(logs, cfg, modules...)
	return runResult{App: a, Logs: logs, Err: err}
}

// evalOne evaluates a single node in default mode.
func evalOne(t *testing.T, a *app.App, node string, args ...cty.Value) cty.Value {
	t.Helper()
	results, err := a.Eval(context.Background(), []string{node}, args...)
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0].Value
}
