package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

const envPrefix = "CHARITY_"

// envLookup resolves keys from the process environment first and then from
// the dotenv file at path, if it exists.
func envLookup(fs afero.Fs, path string, lookup func(string) (string, bool)) func(string) (string, bool) {
	dotenv := map[string]string{}
	if f, err := fs.Open(path); err == nil {
		parsed, perr := godotenv.Parse(f)
		_ = f.Close()
		if perr != nil {
			panic(fmt.Errorf("parse %s: %w", path, perr))
		}
		dotenv = parsed
	}

	return func(key string) (string, bool) {
		if lookup != nil {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	str("API_URL", &cfg.APIBaseURL)
	str("IDENTITY_URL", &cfg.IdentityBaseURL)
	str("STORAGE_PATH", &cfg.StoragePath)
	str("NAMESPACE", &cfg.Namespace)
	str("LOG_FILE", &cfg.LogFile)
	str("LOG_LEVEL", &cfg.LogLevel)

	if v, ok := lookup(envPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err))
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup(envPrefix + "RETRY_ATTEMPTS"); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			panic(fmt.Errorf("%sRETRY_ATTEMPTS: %w", envPrefix, err))
		}
		cfg.RetryAttempts = uint(n)
	}
}
