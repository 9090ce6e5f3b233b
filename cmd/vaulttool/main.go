package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"backoffice/internal/config"
	"backoffice/internal/db"
	"backoffice/internal/session"
)

// vaulttool inspects and repairs the client_state store shared by the
// console server and the terminal client. Opening the store applies the
// schema, so "ensure" is also the migration step for a fresh database.
func main() {
	if len(os.Args) < 2 {
		fatalf("usage: vaulttool <ensure|show|forget> [-profile P]")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	switch os.Args[1] {
	case "ensure":
		vault := open(cfg)
		defer vault.Close()
		fmt.Printf("[SCHEMA] %s store ready\n", cfg.StoreDriver)

	case "show":
		profile := profileFlag("show", cfg, os.Args[2:])
		vault := open(cfg)
		defer vault.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, hasCred, err := vault.Get(ctx, profile, session.KeyCredential)
		if err != nil {
			fatal(err)
		}
		remembered, _, err := vault.Get(ctx, profile, session.KeyRememberedUsername)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("profile:    %s\n", profile)
		fmt.Printf("credential: %v\n", hasCred)
		fmt.Printf("remembered: %q\n", remembered)

	case "forget":
		profile := profileFlag("forget", cfg, os.Args[2:])
		vault := open(cfg)
		defer vault.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, key := range []string{session.KeyCredential, session.KeyRememberedUsername} {
			if err := vault.Delete(ctx, profile, key); err != nil {
				fatal(err)
			}
		}
		fmt.Printf("[FORGET] cleared profile %s\n", profile)

	default:
		fatalf("unknown subcommand: %s", os.Args[1])
	}
}

func profileFlag(name string, cfg *config.Config, args []string) string {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var profile string
	fs.StringVar(&profile, "profile", cfg.Profile, "vault profile (workspace id or terminal profile)")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if profile == "" {
		fatalf("missing -profile")
	}
	return profile
}

func open(cfg *config.Config) db.Vault {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	vault, err := db.Open(ctx, cfg)
	if err != nil {
		fatal(err)
	}
	return vault
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
