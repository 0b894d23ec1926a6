package logger_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/pitlane/internal/logger"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pitlane.log")
	var stderr bytes.Buffer

	l := logger.New(logger.Options{File: path, Stderr: &stderr})
	l.Info("scan finished", "mods", 3)
	l.Debug("hidden at info level")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scan finished")
	assert.Contains(t, string(data), "mods=3")
	assert.NotContains(t, string(data), "hidden at info level")
	assert.Empty(t, stderr.String())
}

func TestNew_VerboseAlsoWritesStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitlane.log")
	var stderr bytes.Buffer

	l := logger.New(logger.Options{File: path, Verbose: true, Stderr: &stderr})
	l.Debug("details")
	require.NoError(t, l.Close())

	assert.Equal(t, log.DebugLevel, l.GetLevel())
	assert.Contains(t, stderr.String(), "details")
}

func TestNew_FallsBackToStderr(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	var stderr bytes.Buffer

	// The parent of the log file is a regular file, so it cannot be created
	l := logger.New(logger.Options{File: filepath.Join(blocker, "pitlane.log"), Stderr: &stderr})
	l.Info("dropped")
	l.Warn("shown")
	require.NoError(t, l.Close())

	assert.NotContains(t, stderr.String(), "dropped")
	assert.Contains(t, stderr.String(), "shown")
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, logger.OrDiscard(nil))

	l := log.New(&bytes.Buffer{})
	assert.Same(t, l, logger.OrDiscard(l))
}
