package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/edward-jazzhands/connect-four/internal/game"
)

type Config struct {
	Addr         string
	PostgresURL  string
	KafkaBrokers []string
	KafkaTopic   string
	LogLevel     string
	Rows         int
	Columns      int
	Randomness   float64
	Seed         int64
	SessionIdle  time.Duration
}

func Load() *Config {
	// PORT wins over ADDR (set by most hosting platforms)
	addr := GetEnv("ADDR", ":8080")
	if port := GetEnv("PORT", ""); port != "" {
		addr = ":" + port
	}

	var brokers []string
	for _, b := range strings.Split(GetEnv("KAFKA_BROKERS", ""), ",") {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}

	randomness := GetEnvAsFloat("AI_RANDOMNESS", game.DefaultRandomness)
	if randomness < 0 || randomness > 1 {
		slog.Warn("AI_RANDOMNESS outside 0..1, using default", "value", randomness)
		randomness = game.DefaultRandomness
	}

	return &Config{
		Addr:         addr,
		PostgresURL:  GetEnv("POSTGRES_URL", ""),
		KafkaBrokers: brokers,
		KafkaTopic:   GetEnv("KAFKA_TOPIC", "connect-four-events"),
		LogLevel:     GetEnv("LOG_LEVEL", "info"),
		Rows:         Clamp(GetEnvAsInt("BOARD_ROWS", game.DefaultRows), game.MinRows, game.MaxRows),
		Columns:      Clamp(GetEnvAsInt("BOARD_COLUMNS", game.DefaultColumns), game.MinColumns, game.MaxColumns),
		Randomness:   randomness,
		Seed:         GetEnvAsInt64("AI_SEED", 0),
		SessionIdle:  time.Duration(GetEnvAsInt("SESSION_IDLE_SECONDS", 600)) * time.Second,
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		slog.Warn("invalid integer, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		slog.Warn("invalid number, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

// Clamp pins v into lo..hi.
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
