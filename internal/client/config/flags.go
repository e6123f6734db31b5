package config

import (
	"flag"

	"github.com/dmitrijs2005/charitydesk/internal/flagx"
)

var knownFlags = []string{"-api", "-identity", "-db", "-ns", "-t", "-r", "-log", "-level"}

// parseFlags populates Config fields from command-line flags. Arguments it
// does not know, such as -c, are filtered out first.
//
//	-api string       platform API base URL
//	-identity string  identity endpoint base URL
//	-db string        session database path
//	-ns string        storage key namespace
//	-t duration       request timeout
//	-r uint           attempts for idempotent requests
//	-log string       log file path
//	-level string     log level
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags...)

	fs := flag.NewFlagSet("charitydesk", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "platform API base URL")
	fs.StringVar(&cfg.IdentityBaseURL, "identity", cfg.IdentityBaseURL, "identity endpoint base URL")
	fs.StringVar(&cfg.StoragePath, "db", cfg.StoragePath, "session database path")
	fs.StringVar(&cfg.Namespace, "ns", cfg.Namespace, "storage key namespace")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.UintVar(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "attempts for idempotent requests")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file path")
	fs.StringVar(&cfg.LogLevel, "level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
