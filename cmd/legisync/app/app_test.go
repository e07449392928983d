package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstatehouse/legisync/internal/cmd/application"
	"github.com/openstatehouse/legisync/internal/stores/memory"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/remote"
)

func sourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"jurisdiction.yaml": `
name: Georgia
external_id: ga
chambers:
  - name: House
    external_id: lower
`,
		"sessions.yaml": `
- name: 2025-2026
  external_id: "2025_26"
`,
		filepath.Join("members", "2025_26", "lower.yaml"): `
- external_id: m1
  name: Ada
`,
		filepath.Join("legislation", "2025_26.yaml"): `
- external_id: hb1
  chamber_external_id: lower
  name_id: HB 1
  title: Budget
  sponsors:
    - member_external_id: m1
`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newTestApp(t *testing.T, store *memory.Store, out *bytes.Buffer) *App {
	t.Helper()
	resetViper(t)
	app, err := New(application.BuildInfo{Version: "v0.0.1"},
		WithConfig(&Config{
			StoreDriver: StoreMemory,
			Source:      "local",
			SourcePath:  sourceDir(t),
			PageSize:    10,
			LogOutput:   "discard",
		}),
		WithStore(store),
		WithOutput(out),
	)
	require.NoError(t, err)
	return app
}

func TestExecuteFullRun(t *testing.T) {
	store := memory.New()
	var out bytes.Buffer
	app := newTestApp(t, store, &out)
	ctx := context.Background()

	err := app.Execute(ctx, []string{"sync", "sessions"})
	assert.True(t, errors.IsNotFound(err), "jurisdiction must be created first: %v", err)

	require.NoError(t, app.Execute(ctx, []string{"init", "--dangerously-create-jurisdiction", "-o", "json"}))
	require.NoError(t, app.Execute(ctx, []string{"sync", "all", "-o", "json"}))
	assert.Contains(t, out.String(), `"legislation"`)

	bills, err := store.ListLegislation(ctx, remote.LegislationFilter{ExternalID: "hb1"})
	require.NoError(t, err)
	require.Len(t, bills.Items, 1)
	assert.Len(t, bills.Items[0].SponsorIDs, 1)

	// Re-running changes nothing
	store.ResetCalls()
	require.NoError(t, app.Execute(ctx, []string{"sync", "all", "-o", "json"}))
	assert.Equal(t, 0, store.Calls(memory.OpCreateSession))
	assert.Equal(t, 0, store.Calls(memory.OpCreateMember))
	assert.Equal(t, 0, store.Calls(memory.OpUpsertLegislation))
}

func TestSyncerValidatesConfig(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, memory.New(), &out)
	app.Config().PageSize = 0

	_, err := app.Syncer(context.Background())
	assert.True(t, errors.IsValidationError(err))
}

func TestStoreDrivers(t *testing.T) {
	resetViper(t)

	t.Run("sqlite opens and closes", func(t *testing.T) {
		app, err := New(application.BuildInfo{Version: "dev"}, WithConfig(&Config{
			StoreDriver: StoreSQLite,
			SQLitePath:  filepath.Join(t.TempDir(), "legisync.db"),
			LogOutput:   "discard",
		}))
		require.NoError(t, err)

		store, err := app.Store()
		require.NoError(t, err)
		again, err := app.Store()
		require.NoError(t, err)
		assert.Same(t, store, again)
		require.NoError(t, app.Shutdown(context.Background()))
	})

	t.Run("rest needs no connection up front", func(t *testing.T) {
		app, err := New(application.BuildInfo{Version: "dev"}, WithConfig(&Config{
			StoreDriver: StoreREST,
			StoreURL:    "http://127.0.0.1:1",
			LogOutput:   "discard",
		}))
		require.NoError(t, err)

		_, err = app.Store()
		require.NoError(t, err)
		assert.NoError(t, app.Shutdown(context.Background()))
	})
}

func TestExecuteConfigFlag(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, memory.New(), &out)
	ctx := context.Background()

	err := app.Execute(ctx, []string{"version", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	path := filepath.Join(t.TempDir(), "legisync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: sqlite\nsqlite:\n  path: ga.db\n"), 0o644))
	require.NoError(t, app.Execute(ctx, []string{"version", "--config", path, "--store", "memory"}))
	assert.Equal(t, path, app.Config().ConfigFile)
	assert.Equal(t, StoreMemory, app.Config().StoreDriver, "flags win over the file")
	assert.Equal(t, "ga.db", app.Config().SQLitePath)
}
