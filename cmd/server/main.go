package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/patungan/backend/internal/auth"
	"github.com/patungan/backend/internal/config"
	"github.com/patungan/backend/internal/handlers"
	"github.com/patungan/backend/internal/service"
	"github.com/patungan/backend/internal/storage/sqlite"
	"github.com/patungan/backend/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Configure(cfg.Log.Level, cfg.Log.Format)

	store, err := sqlite.New(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("database ready", "path", cfg.Storage.Path)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := handlers.NewRouter(handlers.Services{
		Auth:     service.NewAuthService(store, authenticator, jwtManager),
		Groups:   service.NewGroupService(store),
		Bills:    service.NewBillService(store),
		Invoices: service.NewInvoiceService(store),
		JWT:      jwtManager,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
