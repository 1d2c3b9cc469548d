package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points config, log and file storage at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VITAFLOW_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("VITAFLOW_LOG_FILE", filepath.Join(dir, "vitaflow.log"))
	t.Setenv("VITAFLOW_STORAGE_FILE_PATH", filepath.Join(dir, "session.json"))
	t.Setenv("VITAFLOW_STORAGE_SQLITE_PATH", filepath.Join(dir, "vitaflow.db"))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedShowExportReset(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			dir := isolate(t)

			out, err := run(t, "--driver", driver, "show")
			require.NoError(t, err)
			require.Contains(t, out, "No session stored")

			out, err = run(t, "--driver", driver, "seed")
			require.NoError(t, err)
			require.Contains(t, out, "Seeded session")

			out, err = run(t, "--driver", driver, "show")
			require.NoError(t, err)
			require.Contains(t, out, "Completed:  true")

			dest := filepath.Join(dir, "out.yaml")
			_, err = run(t, "--driver", driver, "export", "--format", "yaml", "--out", dest)
			require.NoError(t, err)
			raw, err := os.ReadFile(dest)
			require.NoError(t, err)
			var doc map[string]any
			require.NoError(t, yaml.Unmarshal(raw, &doc))
			require.Equal(t, true, doc["completed"])
			require.NotEmpty(t, doc["prioritized_concerns"])

			_, err = run(t, "--driver", driver, "reset")
			require.NoError(t, err)
			out, err = run(t, "--driver", driver, "show")
			require.NoError(t, err)
			require.Contains(t, out, "No session stored")

			_, err = run(t, "--driver", driver, "export")
			require.Error(t, err)
		})
	}
}

func TestUnknownDriverRejected(t *testing.T) {
	isolate(t)
	_, err := run(t, "--driver", "floppy", "show")
	require.ErrorContains(t, err, "unknown storage.driver")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	isolate(t)
	_, err := run(t, "--driver", "memory", "export", "--format", "csv")
	require.ErrorContains(t, err, "unknown format")
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	out, err := run(t, "--driver", "file", "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "file")

	_, err = run(t, "config", "init")
	require.ErrorContains(t, err, "already exists")
	_, err = run(t, "config", "init", "--force")
	require.NoError(t, err)
}
