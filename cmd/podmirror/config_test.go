package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	main "github.com/fwojciec/podmirror/cmd/podmirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		require.NoError(t, err)

		assert.Equal(t, "data", cfg.DataDir)
		assert.Equal(t, "aggregated.json", cfg.Output)
		assert.Empty(t, cfg.Servers)

		interval, err := cfg.IntervalDuration()
		require.NoError(t, err)
		assert.Equal(t, 6*time.Hour, interval)
	})

	t.Run("parses servers and scalar settings", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
data_dir = "mirror"
interval = "30m"
rps = 2.5

[[server]]
name = "local-8000"
url = "http://localhost:8000/"

[[server]]
name = "local-8001"
url = "http://localhost:8001/"
`), 0644))

		cfg, err := main.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "mirror", cfg.DataDir)
		assert.Equal(t, 2.5, cfg.RPS)
		// Settings absent from the file keep their defaults.
		assert.Equal(t, "aggregated.json", cfg.Output)

		require.Len(t, cfg.Servers, 2)
		assert.Equal(t, "local-8000", cfg.Servers[0].Name)
		assert.Equal(t, "http://localhost:8001/", cfg.Servers[1].URL)

		interval, err := cfg.IntervalDuration()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, interval)
	})

	t.Run("rejects server without URL", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[[server]]
name = "nameless"
`), 0644))

		_, err := main.LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`data_dir = [unterminated`), 0644))

		_, err := main.LoadConfig(path)
		assert.Error(t, err)
	})
}
