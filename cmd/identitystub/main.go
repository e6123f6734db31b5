package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/charitydesk/internal/buildinfo"
	"github.com/dmitrijs2005/charitydesk/internal/client/models"
	"github.com/dmitrijs2005/charitydesk/internal/identitystub"
	"github.com/dmitrijs2005/charitydesk/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	addr := flag.String("a", ":8080", "listen address")
	secret := flag.String("k", "dev-secret", "token signing key")
	accessTTL := flag.Duration("access-ttl", time.Minute, "access token lifetime")
	refreshTTL := flag.Duration("refresh-ttl", 30*time.Minute, "refresh token lifetime")
	apiPrefix := flag.String("api-prefix", "/api/v1", "prefix for profile routes")
	authPrefix := flag.String("auth-prefix", "/api/v1/auth", "prefix for identity routes")
	seedEmail := flag.String("seed-email", "admin@example.org", "seed admin email, empty to skip")
	seedPassword := flag.String("seed-password", "admin123", "seed admin password")
	level := flag.String("level", "debug", "log level")
	flag.Parse()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: logging.ParseLevel(*level)})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	initSignalHandler(cancel)

	s := identitystub.NewServer(
		identitystub.WithSecret(*secret),
		identitystub.WithTTL(*accessTTL, *refreshTTL),
		identitystub.WithLogger(logger),
	)

	if *seedEmail != "" {
		u, err := s.AddUser("Administrator", *seedEmail, *seedPassword, models.RoleAdmin)
		if err != nil {
			log.Fatalf("seed user: %v", err)
		}
		logger.Info(ctx, "seeded admin", "email", u.Email, "id", u.ID)
	}

	if err := s.Run(ctx, *addr, s.Handler(*apiPrefix, *authPrefix)); err != nil {
		logger.Error(ctx, "server stopped", "err", err)
		os.Exit(1)
	}
}

func initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}
