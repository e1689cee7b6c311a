package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blog-api/internal/config"
	httpserver "blog-api/internal/http-server"
	"blog-api/internal/lib/logger"
	"blog-api/internal/lib/logger/sl"
	articleservice "blog-api/internal/service/article"
	userservice "blog-api/internal/service/user"
	"blog-api/internal/storage/postgres"
	"blog-api/internal/storage/sqlite"
)

// Store is everything the services need from a storage backend.
type Store interface {
	userservice.Storage
	articleservice.Storage
	Close() error
}

func main() {
	cfg := config.MustLoad()

	log := logger.New(cfg.Env)

	log.Debug("initializing server...", slog.String("addr", cfg.Address), slog.String("env", cfg.Env))

	// Init storage
	store, err := openStorage(cfg)
	if err != nil {
		log.Error("error opening storage", sl.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	// Init service layer
	usrService := userservice.New(log, store, cfg.TokenTTL, cfg.Secret)
	artService := articleservice.New(log, store)

	srv := http.Server{
		Handler:      httpserver.NewRouter(log, usrService, artService),
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log.Debug("server initialized")
	log.Info("server is running...", slog.String("addr", cfg.Address))

	// Gracefully shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("error starting server", sl.Error(err))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error stopping server", sl.Error(err))
	}

	log.Info("server stopped")
}

func openStorage(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return sqlite.New(cfg.StoragePath)
	case config.DriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		return postgres.New(ctx, cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
