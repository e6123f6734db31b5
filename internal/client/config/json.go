package config

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/flagx"
	"github.com/spf13/afero"
)

// Duration accepts either a Go duration string ("30s") or integer
// nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	return errors.New("invalid duration")
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	APIBaseURL      string   `json:"api_base_url"`
	IdentityBaseURL string   `json:"identity_base_url"`
	StoragePath     string   `json:"storage_path"`
	Namespace       string   `json:"namespace"`
	RequestTimeout  Duration `json:"request_timeout"`
	RetryAttempts   uint     `json:"retry_attempts"`
	LogFile         string   `json:"log_file"`
	LogLevel        string   `json:"log_level"`
}

// parseJson overlays cfg with the non-empty values of the JSON file named
// by -c/-config. Without that flag nothing is loaded. Read and decode errors
// panic.
func parseJson(cfg *Config, fs afero.Fs, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.IdentityBaseURL, jc.IdentityBaseURL)
	overlay(&cfg.StoragePath, jc.StoragePath)
	overlay(&cfg.Namespace, jc.Namespace)
	overlay(&cfg.LogFile, jc.LogFile)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout)
	}
	if jc.RetryAttempts != 0 {
		cfg.RetryAttempts = jc.RetryAttempts
	}
}
