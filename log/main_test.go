package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/netrixframework/cexsimplify/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	l, err := NewLogger(config.LogConfig{Path: path, Format: "json", Level: "debug"})
	require.NoError(t, err)
	l.With(LogParams{"constraints": 3}).Debug("Built constraint system")
	l.Destroy()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "Built constraint system", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, float64(3), entry["constraints"])
}

func TestLoggerLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	l, err := NewLogger(config.LogConfig{Path: path, Level: "warn"})
	require.NoError(t, err)
	l.Info("dropped")
	l.Warn("kept")
	l.Destroy()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestNewLoggerRejectsBadConfig(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
	_, err = NewLogger(config.LogConfig{Format: "xml"})
	assert.Error(t, err)
	_, err = NewLogger(config.LogConfig{Path: filepath.Join(t.TempDir(), "missing", "out.log")})
	assert.Error(t, err)
}

func TestInitKeepsDefaultOnError(t *testing.T) {
	before := DefaultLogger
	assert.Error(t, Init(config.LogConfig{Level: "loud"}))
	assert.Same(t, before, DefaultLogger)
}
