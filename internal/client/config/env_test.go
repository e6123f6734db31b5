package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	parseEnv(cfg, mapEnv(map[string]string{
		"CHARITY_STORAGE_PATH":    "/tmp/s.db",
		"CHARITY_REQUEST_TIMEOUT": "1m",
		"CHARITY_LOG_FILE":        "",
	}))

	assert.Equal(t, "/tmp/s.db", cfg.StoragePath)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
	assert.Equal(t, "data/client.log", cfg.LogFile, "empty values are ignored")
}

func TestParseEnv_InvalidValuesPanic(t *testing.T) {
	tests := []map[string]string{
		{"CHARITY_REQUEST_TIMEOUT": "soon"},
		{"CHARITY_RETRY_ATTEMPTS": "-1"},
	}
	for _, env := range tests {
		cfg := &Config{}
		require.Panics(t, func() { parseEnv(cfg, mapEnv(env)) })
	}
}

func TestEnvLookup_ProcessEnvWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("A=file\nB=file\n"), 0o600))

	lookup := envLookup(fs, ".env", mapEnv(map[string]string{"A": "proc"}))

	v, ok := lookup("A")
	assert.True(t, ok)
	assert.Equal(t, "proc", v)

	v, ok = lookup("B")
	assert.True(t, ok)
	assert.Equal(t, "file", v)

	_, ok = lookup("C")
	assert.False(t, ok)
}

func TestEnvLookup_MissingFile(t *testing.T) {
	lookup := envLookup(afero.NewMemMapFs(), ".env", nil)
	_, ok := lookup("ANY")
	assert.False(t, ok)
}
