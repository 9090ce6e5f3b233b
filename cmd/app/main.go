package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	_ "time/tzdata" // DISPLAY_TZ must resolve on hosts without a zoneinfo database

	"backoffice/internal/adapters/cli"
	"backoffice/internal/adapters/repl"
	"backoffice/internal/apiclient"
	"backoffice/internal/app"
	"backoffice/internal/config"
	"backoffice/internal/db"
	"backoffice/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	vault, err := db.Open(ctx, cfg)
	if err != nil {
		slog.Error("database", "error", err)
		os.Exit(1)
	}
	defer vault.Close()

	var apiOpts []apiclient.Option
	if cfg.APITimeout > 0 {
		apiOpts = append(apiOpts, apiclient.WithTimeout(cfg.APITimeout))
	}
	ws, err := app.NewWorkspace(cfg.Profile, app.Deps{
		APIBaseURL:           cfg.APIBaseURL,
		APIOptions:           apiOpts,
		Vault:                vault,
		Location:             cfg.Location(),
		LogoutOnUnauthorized: cfg.LogoutOnUnauthorized,
	})
	if err != nil {
		slog.Error("workspace", "error", err)
		os.Exit(1)
	}
	// the terminal has no loading screen; restore before the first prompt
	if err := ws.Restore(ctx); err != nil {
		slog.Warn("session restore", "error", err)
	}

	if len(os.Args) > 1 {
		if err := cli.Run(ctx, ws, os.Args[1:], os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			vault.Close()
			if errors.Is(err, cli.ErrUsage) {
				os.Exit(2)
			}
			os.Exit(1)
		}
		return
	}
	repl.Run(ctx, ws, bufio.NewReader(os.Stdin), os.Stdout)
}
