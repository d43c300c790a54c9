package api

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"solder/agent"
	"solder/common"
	"solder/srv/sqlite"
	"solder/store"
	"solder/toolchain"

	"github.com/stretchr/testify/require"
)

// NewTestController builds a controller backed by a temp project root, an
// in-memory sqlite storage and a stub contract CLI driven by the given shell
// script.
func NewTestController(t *testing.T, stubScript string) Controller {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub CLI scripts require a POSIX shell")
	}

	cliPath := filepath.Join(t.TempDir(), "stub-cli")
	require.NoError(t, os.WriteFile(cliPath, []byte("#!/bin/sh\n"+stubScript), 0755))

	config := common.LocalConfig{
		Toolchain: common.ToolchainConfig{
			Command:        cliPath,
			Target:         common.DefaultToolchainTarget,
			TimeoutSeconds: 60,
		},
	}.WithDefaults()

	return Controller{
		store:   store.NewProjectStore(t.TempDir()),
		runner:  toolchain.NewRunner(config.Toolchain),
		agent:   agent.NewClientWithURL("http://127.0.0.1:0/api/agent"),
		storage: sqlite.NewTestSqliteStorage(t),
		config:  config,
		hub:     newEventHub(),
	}
}
