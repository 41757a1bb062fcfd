package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/edward-jazzhands/connect-four/internal/config"
	"github.com/edward-jazzhands/connect-four/internal/game"
	"github.com/edward-jazzhands/connect-four/internal/logging"
	"github.com/edward-jazzhands/connect-four/internal/terminal"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	rows := flag.Int("rows", 0, "board rows (skips the size prompt together with -columns)")
	columns := flag.Int("columns", 0, "board columns")
	seed := flag.Int64("seed", cfg.Seed, "computer player seed, 0 for time based")
	randomness := flag.Float64("randomness", cfg.Randomness, "chance the computer ignores heuristic scores")
	level := flag.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.Parse()

	if (*rows != 0 || *columns != 0) && !game.ValidSize(*rows, *columns) {
		fmt.Fprintf(os.Stderr, "board must be %d-%d rows by %d-%d columns\n", game.MinRows, game.MaxRows, game.MinColumns, game.MaxColumns)
		os.Exit(2)
	}

	logger, lv := logging.New(*level, os.Stderr)
	color := terminal.ColorEnabled(os.Stdout)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompter := terminal.NewPrompter(os.Stdin, os.Stdout, lv, color)
	prompter.DefaultRows, prompter.DefaultColumns = cfg.Rows, cfg.Columns
	display := terminal.NewDisplay(os.Stdout, color)
	session := &terminal.Session{
		Prompter:   prompter,
		Display:    display,
		Logger:     logger,
		Level:      lv,
		Out:        os.Stdout,
		Color:      color,
		Randomness: *randomness,
		Seed:       *seed,
		Rows:       *rows,
		Columns:    *columns,
	}
	err := session.Run(ctx)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
	case game.IsInvariantViolation(err):
		logger.Error("invariant violated", "err", err)
		os.Exit(1)
	default:
		logger.Error("game aborted", "err", err)
		os.Exit(1)
	}
}
