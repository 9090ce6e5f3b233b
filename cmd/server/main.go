package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // DISPLAY_TZ must resolve on hosts without a zoneinfo database

	webAdapter "backoffice/internal/adapters/web"
	"backoffice/internal/apiclient"
	"backoffice/internal/app"
	"backoffice/internal/config"
	"backoffice/internal/db"
	"backoffice/internal/logging"
	"backoffice/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)
	if err := cfg.RequireServer(); err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vault, err := db.Open(ctx, cfg)
	if err != nil {
		slog.Error("database", "error", err)
		os.Exit(1)
	}
	defer vault.Close()

	m := metrics.New()
	var apiOpts []apiclient.Option
	if cfg.APITimeout > 0 {
		apiOpts = append(apiOpts, apiclient.WithTimeout(cfg.APITimeout))
	}
	registry := app.NewRegistry(app.Deps{
		APIBaseURL:           cfg.APIBaseURL,
		APIOptions:           apiOpts,
		Vault:                vault,
		Location:             cfg.Location(),
		Metrics:              m,
		LogoutOnUnauthorized: cfg.LogoutOnUnauthorized,
	})
	if cfg.WorkspaceIdleTTL > 0 {
		registry.StartPurge(ctx, cfg.WorkspaceIdleTTL, time.Minute)
	}

	handler, err := webAdapter.NewHandler(registry, webAdapter.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		CookieSecret:   cfg.CookieSecret,
		CSRFKey:        cfg.CSRFKey,
		SecureCookies:  cfg.SecureCookies,
		Metrics:        m,
	})
	if err != nil {
		slog.Error("handler", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "port", cfg.ServerPort, "api", cfg.APIBaseURL, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
