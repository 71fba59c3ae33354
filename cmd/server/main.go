// Command server serves username checks over HTTP.
//
// Configuration comes from the environment or a .env file:
// PORT, GITHUB_TOKEN, HTTP_TIMEOUT, REQUEST_TIMEOUT, RATE_LIMIT_MAX,
// RATE_LIMIT_WINDOW, CORS_ORIGINS and LOG_LEVEL.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/handlecheck/pkg/config"
	"github.com/codeGROOVE-dev/handlecheck/pkg/handlecheck"
	"github.com/codeGROOVE-dev/handlecheck/pkg/httpclient"
	"github.com/codeGROOVE-dev/handlecheck/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logging.Level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker, err := handlecheck.New(ctx,
		handlecheck.WithLogger(logger),
		handlecheck.WithHTTPClient(httpclient.New(cfg.HTTP.Timeout)),
		handlecheck.WithGitHubToken(cfg.GitHub.Token),
	)
	if err != nil {
		logger.Error("failed to create checker", "error", err)
		os.Exit(1) //nolint:gocritic // exitAfterDefer is acceptable in main
	}

	srv := server.New(checker,
		server.WithLogger(logger),
		server.WithRequestTimeout(cfg.Server.RequestTimeout),
		server.WithRateLimit(cfg.RateLimit.Max, cfg.RateLimit.Window),
		server.WithCORSOrigins(cfg.Server.CORSOrigins),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.Addr()) }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
