// Command themekit compiles a component-based theme's style and script
// sources and relocates per-component artifacts back next to their sources.
// Without --watch it builds once and exits; with --watch it rebuilds on
// every source change until interrupted.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/themekit/internal/build"
	"git.home.luguber.info/inful/themekit/internal/config"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"theme.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`
	Watch   bool   `short:"w" help:"Watch source roots and rebuild on change"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("themekit"),
		kong.Description("Build orchestrator for component-based theme assets"))

	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	svc := build.NewService(cfg)

	if CLI.Watch {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		if err := svc.RunWatch(ctx); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := svc.RunOnce(context.Background()); err != nil {
		slog.Error("Build failed", "error", err)
		os.Exit(1)
	}
}
