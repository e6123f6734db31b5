package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/charitydesk/internal/buildinfo"
	"github.com/dmitrijs2005/charitydesk/internal/client/cli"
	"github.com/dmitrijs2005/charitydesk/internal/client/config"
	"github.com/dmitrijs2005/charitydesk/internal/filex"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logPath, err := filex.EnsureParentDir(cfg.LogFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logger, closer := logging.NewFileLogger(logging.FileOptions{
		Path:       logPath,
		Level:      cfg.LogLevel,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	})
	defer closer.Close()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init", "err", err)
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}

// loadConfig turns a configuration panic into an error.
func loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid configuration: %v", r)
		}
	}()
	return config.LoadConfig(), nil
}
