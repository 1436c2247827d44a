package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"concertfever-storefront/internal/config"
	"concertfever-storefront/internal/logging"
	"concertfever-storefront/internal/server"
	"concertfever-storefront/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := pflag.NewFlagSet("concertfever", pflag.ContinueOnError)
	flags.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "port to listen on (PORT)")
	flags.StringVar(&cfg.Backend.URL, "backend-url", cfg.Backend.URL, "base URL of the ConcertFever backend (BACKEND_URL)")
	mock := flags.Bool("mock", cfg.Backend.Mode == config.BackendModeMock, "serve an in-memory catalogue instead of calling the backend")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *mock {
		cfg.Backend.Mode = config.BackendModeMock
	}

	logger := logging.New(cfg.Logging)

	factory := services.NewStorageFactory(cfg, logger)
	sessions := services.NewSessionService(services.NewCookieStore(cfg.Session.Secret, cfg.Session.Secure), logger)

	carts, closeCarts, err := factory.CreateCartStorage(sessions)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCarts(); err != nil {
			logger.WithError(err).Warn("Failed to close cart storage")
		}
	}()

	router := server.NewRouter(server.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Backend:  factory.CreateBackend(),
		Sessions: sessions,
		Carts:    carts,
	})
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":         srv.Addr,
			"env":          cfg.Server.Env,
			"backend_mode": cfg.Backend.Mode,
			"cart_storage": cfg.Cart.Storage,
		}).Info("ConcertFever storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server shutdown completed")
	return nil
}
