package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/JonMunkholm/volumereport/internal/config"
	"github.com/JonMunkholm/volumereport/internal/core"
	"github.com/JonMunkholm/volumereport/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	// Load and validate configuration; flags win over the environment
	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 2
	}

	// Setup structured logging based on config
	logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx := logging.WithRunID(context.Background(), logging.NewRunID())
	logger := logging.FromContext(ctx)
	logger.Debug("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	// Fall back to prompting when started interactively without inputs
	if cfg.Input.Empty() && isatty.IsTerminal(os.Stdin.Fd()) {
		if err := promptInputs(os.Stdin, os.Stderr, &cfg.Input); err != nil {
			return fail(ctx, err)
		}
	}
	if err := cfg.Input.Validate(); err != nil {
		return fail(ctx, fmt.Errorf("%w: %v", core.ErrNoInputs, err))
	}

	service, err := core.NewService(cfg)
	if err != nil {
		return fail(ctx, err)
	}

	inputs, err := service.ResolveInputs(ctx, cfg.Input)
	if err != nil {
		return fail(ctx, err)
	}
	logger.Info("inputs resolved",
		"device_files", len(inputs.DeviceFiles),
		"data_files", len(inputs.DataFiles),
	)

	if err := service.Run(ctx, inputs, service.TerminalReporter(os.Stdout)); err != nil {
		return fail(ctx, err)
	}
	return 0
}

// fail logs err with its operator message and returns the exit status.
func fail(ctx context.Context, err error) int {
	msg := core.MapError(err)
	logging.FromContext(ctx).Error(msg.Message,
		"code", msg.Code,
		"action", msg.Action,
		"error", err,
	)

	// Row diagnostics are easier to act on as plain lines
	var perr *core.ParseError
	if errors.As(err, &perr) {
		fmt.Fprintln(os.Stderr, perr.Error())
	}
	return 1
}
