// Command pressbox is an interactive CLI for generating sports articles: pick
// a template, fill the form, preview the result, refine or regenerate it, and
// download the finished document.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/goliatone/go-pressbox/internal/config"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "pressbox:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath(), "path to the config file")
	initConfig := flag.Bool("init-config", false, "write a sample config file and exit")
	userID := flag.String("user", "", "user id presented to access rules")
	planType := flag.String("plan", "free", "subscription plan type (free, pro)")
	articles := flag.Int("articles", 1, "articles remaining on a metered plan")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *initConfig {
		if err := config.WriteSample(*configPath); err != nil {
			return err
		}
		fmt.Println("wrote", *configPath)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(cfg.LogLevel),
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	app, err := newApp(cfg, logger, *userID, *planType, *articles)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
