package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sara-n6/HoMee/adapters/db"
	"github.com/sara-n6/HoMee/adapters/rest"
	"github.com/sara-n6/HoMee/adapters/rest/handlers"
	"github.com/sara-n6/HoMee/config"
	"github.com/sara-n6/HoMee/core"
)

func main() {
	var configPath string
	var seed bool
	flag.StringVar(&configPath, "config", "config.yaml", "server configuration file")
	flag.BoolVar(&seed, "seed", false, "insert demo data after migrations")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log, seed); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger, seed bool) error {
	log.Info("starting homee server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := db.New(log, cfg.DBAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close db connection", "error", err)
		}
	}()

	if err := storage.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate db: %w", err)
	}

	if seed {
		if err := storage.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed db: %w", err)
		}
	}

	svc := core.NewService(storage, cfg.PageSize)

	mux := http.NewServeMux()
	handlers.Register(mux, log, svc, storage, cfg.HTTP.Timeout)

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		Handler:           rest.WithRequestID(mux),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("homee http server is running", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
