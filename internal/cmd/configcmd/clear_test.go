package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikitext-cli/internal/config"
)

func TestRunClear_WithExistingConfig(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{Mode: "draft"}).Save(path))

	var buf bytes.Buffer
	require.NoError(t, runClear(&buf, path, true))
	assert.Contains(t, buf.String(), "Configuration cleared from "+path)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRunClear_Idempotent(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")

	var buf bytes.Buffer
	require.NoError(t, runClear(&buf, path, true))
	require.NoError(t, runClear(&buf, path, true))
	assert.Contains(t, buf.String(), "No config file to remove")
}

func TestRunClear_ReportsEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("WTR_SERVER_URL", "http://localhost:8420")

	var buf bytes.Buffer
	require.NoError(t, runClear(&buf, filepath.Join(t.TempDir(), "config.yml"), true))
	assert.Contains(t, buf.String(), "Environment variables will still be used: WTR_SERVER_URL")
}
