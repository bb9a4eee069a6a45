package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bahjat/seo-check-api/internal/audit"
	"github.com/Bahjat/seo-check-api/internal/clarity"
	"github.com/Bahjat/seo-check-api/internal/httpserver"
	"github.com/Bahjat/seo-check-api/internal/platform/config"
	"github.com/Bahjat/seo-check-api/internal/platform/logger"
	"github.com/Bahjat/seo-check-api/internal/seocheck"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	checker := seocheck.NewChecker(
		seocheck.NewHTTPClient(cfg.AllowPrivateNetworks),
		seocheck.WithFetchTimeout(cfg.FetchTimeout),
		seocheck.WithConcurrency(cfg.BatchConcurrency),
		seocheck.WithLogger(log),
	)
	service := audit.NewService(checker, log)

	handler := httpserver.NewRouter(log, cfg.CORSAllowedOrigins,
		audit.NewTransport(service, log, cfg.MaxBatchURLs),
		clarity.NewHandler(cfg.ClarityDataPath, log),
	)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// A batch may legitimately take as long as its slowest fetch.
		WriteTimeout: cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			"addr", srv.Addr,
			"fetch_timeout", cfg.FetchTimeout.String(),
			"batch_concurrency", cfg.BatchConcurrency,
			"allow_private_networks", cfg.AllowPrivateNetworks,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		_ = srv.Close()
	}
}
