package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfigJSON(t *testing.T) {
	path := write(t, "config.json", `{
		"simplify": {"method": "nelder-mead", "timeout": "1m30s", "families": ["cwnd"]},
		"server_addr": "127.0.0.1:9000",
		"log": {"level": "debug"}
	}`)
	conf, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "nelder-mead", conf.Simplify.Method)
	assert.Equal(t, Duration(90*time.Second), conf.Simplify.Timeout)
	assert.Equal(t, []string{"cwnd"}, conf.Simplify.Families)
	assert.Equal(t, "127.0.0.1:9000", conf.ServerAddr)
	assert.Equal(t, "debug", conf.LogConfig.Level)

	// untouched fields keep their defaults
	def := Default()
	assert.Equal(t, def.Simplify.StrictMargin, conf.Simplify.StrictMargin)
	assert.Equal(t, def.Workers, conf.Workers)
	assert.Equal(t, def.LogConfig.Format, conf.LogConfig.Format)
}

func TestParseConfigYAML(t *testing.T) {
	path := write(t, "config.yaml", `
simplify:
  timeout: 250ms
  max_denominator: 1000
workers: 8
`)
	conf, err := ParseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Duration(250*time.Millisecond), conf.Simplify.Timeout)
	assert.Equal(t, int64(1000), conf.Simplify.MaxDenominator)
	assert.Equal(t, 8, conf.Workers)
	assert.Equal(t, "simplex", conf.Simplify.Method)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ParseConfig(write(t, "bad.json", `{"simplify": {"timeout": "soon"}}`))
	assert.Error(t, err)

	_, err = ParseConfig(write(t, "bad.yml", "workers: [1"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)

	conf, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)
}
