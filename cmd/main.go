package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/gaana/internal/shared"
	"github.com/desertthunder/gaana/internal/store"
	"github.com/urfave/cli/v3"
)

func main() {
	shared.LoadEnv()
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("GAANA_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	if err := shared.ApplyEnv(config); err != nil {
		logger.Fatalf("invalid environment: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	tokens, closeStore, err := store.Open(config)
	if err != nil {
		logger.Fatalf("failed to open session store: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Tokens:     tokens,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "gaana",
		Usage:    "Admin console for the gaana music catalog",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = app.Run(ctx, os.Args)
	stop()
	runner.Close()
	if cerr := closeStore(); cerr != nil {
		logger.Warn("failed to close session store", "error", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
