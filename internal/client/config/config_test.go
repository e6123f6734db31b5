package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func mapEnv(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080/api/v1", c.APIBaseURL)
	assert.Equal(t, "charity_admin", c.Namespace)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, uint(3), c.RetryAttempts)
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg := Load(afero.NewMemMapFs(), nil, noEnv)

	want := &Config{
		APIBaseURL:      "http://localhost:8080/api/v1",
		IdentityBaseURL: "http://localhost:8080/api/v1/auth",
		StoragePath:     "data/session.db",
		Namespace:       "charity_admin",
		RequestTimeout:  30 * time.Second,
		RetryAttempts:   3,
		LogFile:         "data/client.log",
		LogLevel:        "info",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_Precedence(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env", []byte(
		"CHARITY_NAMESPACE=charity_donor\nCHARITY_LOG_LEVEL=warn\nCHARITY_API_URL=http://dotenv/api\n"), 0o600))
	require.NoError(t, afero.WriteFile(fs, "cfg.json", []byte(
		`{"api_base_url":"http://json/api/","request_timeout":"5s","log_level":"error"}`), 0o600))

	env := mapEnv(map[string]string{"CHARITY_LOG_LEVEL": "debug", "CHARITY_RETRY_ATTEMPTS": "7"})
	cfg := Load(fs, []string{"-c", "cfg.json", "-t", "2s"}, env)

	assert.Equal(t, "charity_donor", cfg.Namespace, ".env applies when env is unset")
	assert.Equal(t, "http://json/api", cfg.APIBaseURL, "json beats .env, trailing slash trimmed")
	assert.Equal(t, "http://json/api/auth", cfg.IdentityBaseURL)
	assert.Equal(t, "error", cfg.LogLevel, "json beats environment")
	assert.Equal(t, uint(7), cfg.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout, "flags beat json")
}

func TestLoad_ExplicitIdentityURLKept(t *testing.T) {
	cfg := Load(afero.NewMemMapFs(), []string{"-identity", "http://id.local"}, noEnv)
	assert.Equal(t, "http://id.local", cfg.IdentityBaseURL)
}

func TestLoad_ZeroAttemptsBecomesOne(t *testing.T) {
	cfg := Load(afero.NewMemMapFs(), []string{"-r", "0"}, noEnv)
	assert.Equal(t, uint(1), cfg.RetryAttempts)
}
