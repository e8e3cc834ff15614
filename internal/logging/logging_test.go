package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broker.log")

	logger, err := New(Options{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Info("config loaded", zap.String("scope", "studio-3"))
	logger.Debug("reload requested")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	// First line is a JSON object carrying the message and fields.
	var line map[string]any
	first, _, _ := bytes.Cut(data, []byte("\n"))
	require.NoError(t, json.Unmarshal(first, &line))
	assert.Equal(t, "config loaded", line["msg"])
	assert.Equal(t, "studio-3", line["scope"])
}

func TestNew_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broker.log")

	logger, err := New(Options{File: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("filtered out")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered out")
	assert.Contains(t, string(data), "kept")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "shouting"})
	assert.Error(t, err)
}

func TestNew_NopWithoutSinks(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	require.NotNil(t, logger)

	// Safe to use even though nothing is configured.
	logger.Error("goes nowhere")
}
