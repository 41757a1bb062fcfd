package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/edward-jazzhands/connect-four/internal/analytics"
	"github.com/edward-jazzhands/connect-four/internal/config"
	"github.com/edward-jazzhands/connect-four/internal/logging"
)

func main() {
	_ = godotenv.Load()
	brokers := strings.Split(config.GetEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	topic := config.GetEnv("KAFKA_TOPIC", "connect-four-events")
	logger, _ := logging.New(config.GetEnv("LOG_LEVEL", "info"), os.Stdout)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "connect-four-analytics",
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("analytics consumer listening", "brokers", brokers, "topic", topic)

	metrics := analytics.NewMetrics()
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.Log(logger)
			}
		}
	}()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				metrics.Log(logger)
				return
			}
			logger.Error("read failed", "err", err)
			os.Exit(1)
		}
		var e analytics.Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			logger.Warn("failed to unmarshal event", "err", err)
			continue
		}
		metrics.Record(e)
		logger.Info("event", "type", e.Event, "winner", e.Payload["winner"])
	}
}
