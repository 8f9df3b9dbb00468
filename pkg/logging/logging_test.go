package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connecthear/opsportal/pkg/config"
)

func TestNew_DiscardWithoutOutput(t *testing.T) {
	logger, err := New(config.LogConfig{Level: "debug"}, "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1), "nop logger enables nothing")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, "stderr")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestNew_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opsportal.log")
	logger, err := New(config.LogConfig{Level: "warn", Encoding: "json", File: path}, "stderr")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warn", entry["level"])
	assert.Contains(t, entry, "ts")
}
