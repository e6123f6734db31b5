package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Config holds runtime settings for the charitydesk CLI.
//
// IdentityBaseURL falls back to APIBaseURL + "/auth" when left empty.
type Config struct {
	APIBaseURL      string
	IdentityBaseURL string
	StoragePath     string
	Namespace       string
	RequestTimeout  time.Duration
	RetryAttempts   uint
	LogFile         string
	LogLevel        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api/v1"
	c.IdentityBaseURL = ""
	c.StoragePath = "data/session.db"
	c.Namespace = "charity_admin"
	c.RequestTimeout = 30 * time.Second
	c.RetryAttempts = 3
	c.LogFile = "data/client.log"
	c.LogLevel = "info"
}

func (c *Config) finalize() {
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.IdentityBaseURL == "" {
		c.IdentityBaseURL = c.APIBaseURL + "/auth"
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 1
	}
}

// LoadConfig builds a Config from defaults, .env and the environment, an
// optional JSON file and command-line flags, in that order. It panics on
// malformed input.
func LoadConfig() *Config {
	return Load(afero.NewOsFs(), os.Args[1:], os.LookupEnv)
}

// Load is LoadConfig with its sources injected.
func Load(fs afero.Fs, args []string, lookup func(string) (string, bool)) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, envLookup(fs, ".env", lookup))
	parseJson(cfg, fs, args)
	parseFlags(cfg, args)
	cfg.finalize()
	return cfg
}
