package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	logger, closeFn, err := New(Config{Level: "info", Format: "console", FilePath: path})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Warn("failed to featurize", zap.String("file", "bad.cif"))
	require.NoError(t, closeFn())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "failed to featurize")
	assert.Contains(t, out, "bad.cif")
	assert.NotContains(t, out, "hidden")
}

func TestNew_AppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	for _, msg := range []string{"first", "second"} {
		logger, closeFn, err := New(Config{Format: "json", FilePath: path})
		require.NoError(t, err)
		logger.Info(msg)
		require.NoError(t, closeFn())
	}

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"first"`)
	assert.Contains(t, string(b), `"msg":"second"`)
}

func TestNew_BadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, _, err := New(Config{FilePath: filepath.Join(blocker, "run.log")})
	assert.Error(t, err)
}
