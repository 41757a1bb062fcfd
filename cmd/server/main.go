package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/edward-jazzhands/connect-four/internal/analytics"
	"github.com/edward-jazzhands/connect-four/internal/config"
	"github.com/edward-jazzhands/connect-four/internal/logging"
	"github.com/edward-jazzhands/connect-four/internal/server"
	"github.com/edward-jazzhands/connect-four/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("../.env")
	}
	cfg := config.Load()
	logger, _ := logging.New(cfg.LogLevel, os.Stdout)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	if cfg.PostgresURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Warn("postgres disabled", "err", err)
		} else {
			defer pg.Close(context.Background())
			if err := pg.EnsureTables(ctx); err != nil {
				logger.Warn("postgres ensure tables failed", "err", err)
			}
			store = pg
		}
	}

	producer := analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer producer.Close()

	srv := server.New(server.Config{
		Rows:        cfg.Rows,
		Columns:     cfg.Columns,
		SessionIdle: cfg.SessionIdle,
		Randomness:  cfg.Randomness,
		Seed:        cfg.Seed,
		Store:       store,
		Analytics:   producer,
		Logger:      logger,
	})
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
