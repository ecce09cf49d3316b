package configcmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wikitext-cli/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestRunShow_WithConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg := &config.Config{
		Mode:      "forum-post",
		MaxDepth:  16,
		Severity:  map[string]string{"invalid-css": "error", "unknown-module": "error"},
		ServerURL: "http://localhost:8420",
	}
	require.NoError(t, cfg.Save(path))

	var buf bytes.Buffer
	require.NoError(t, runShow(&buf, path, true))

	output := buf.String()
	assert.Contains(t, output, "forum-post  (source: config)")
	assert.Contains(t, output, "16  (source: config)")
	assert.Contains(t, output, "invalid-css=error, unknown-module=error")
	assert.Contains(t, output, "Config file: "+path)
	assert.NotContains(t, output, "file not found")
}

func TestRunShow_EnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{Mode: "page"}).Save(path))
	t.Setenv("WTR_MODE", "list")

	var buf bytes.Buffer
	require.NoError(t, runShow(&buf, path, true))
	assert.Contains(t, buf.String(), "list  (source: WTR_MODE)")
}

func TestRunShow_NoConfigFile(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	require.NoError(t, runShow(&buf, filepath.Join(t.TempDir(), "missing.yml"), true))
	assert.Contains(t, buf.String(), "(file not found)")
}
