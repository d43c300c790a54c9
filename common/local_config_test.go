package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSolderConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		config, err := GetSolderConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultToolchainCommand, config.Toolchain.Command)
		assert.Equal(t, DefaultToolchainTarget, config.Toolchain.Target)
		assert.Equal(t, DefaultTimeoutSeconds, config.Toolchain.TimeoutSeconds)
		assert.Equal(t, DefaultDebounceMs, config.Autosave.DebounceMs)
		assert.NotEmpty(t, config.Networks)
	})

	t.Run("valid config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := `
toolchain:
  command: soroban
  timeout_seconds: 60
networks:
  - name: standalone
    rpc_url: http://localhost:8000/soroban/rpc
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		config, err := GetSolderConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "soroban", config.Toolchain.Command)
		assert.Equal(t, 60, config.Toolchain.TimeoutSeconds)
		// unset fields still get defaults
		assert.Equal(t, DefaultToolchainTarget, config.Toolchain.Target)
		require.Len(t, config.Networks, 1)
		assert.Equal(t, "standalone", config.Networks[0].Name)
	})

	t.Run("network without name is rejected", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := `
networks:
  - rpc_url: http://localhost:8000
`
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

		_, err := GetSolderConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})
}

func TestGetServerPort(t *testing.T) {
	t.Run("returns default when SOLDER_SERVER_PORT unset", func(t *testing.T) {
		os.Unsetenv("SOLDER_SERVER_PORT")
		assert.Equal(t, 8991, GetServerPort())
	})

	t.Run("returns SOLDER_SERVER_PORT when set", func(t *testing.T) {
		t.Setenv("SOLDER_SERVER_PORT", "9000")
		assert.Equal(t, 9000, GetServerPort())
	})
}

func TestInferLanguageFromPath(t *testing.T) {
	assert.Equal(t, Rust, InferLanguageFromPath("src/lib.rs"))
	assert.Equal(t, Toml, InferLanguageFromPath("Cargo.toml"))
	assert.Equal(t, PlainText, InferLanguageFromPath("LICENSE"))
}
