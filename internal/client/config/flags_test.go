package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-api", "http://h/api", "-identity", "http://h/auth", "-db", "s.db", "-ns", "charity_donor",
				"-t", "10s", "-r", "2", "-log", "c.log", "-level", "debug"},
			expected: &Config{APIBaseURL: "http://h/api", IdentityBaseURL: "http://h/auth", StoragePath: "s.db",
				Namespace: "charity_donor", RequestTimeout: 10 * time.Second, RetryAttempts: 2, LogFile: "c.log", LogLevel: "debug"},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-c", "cfg.json", "-ns=charity_donor", "-verbose"},
			expected: &Config{Namespace: "charity_donor"},
		},
		{name: "bad duration", args: []string{"-t", "abc"}, expectPanic: true},
		{name: "bad attempts", args: []string{"-r", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
