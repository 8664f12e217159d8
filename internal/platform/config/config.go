package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Stores and sinks are chosen
// by which URLs are present: empty PostgresURL means in-memory stores,
// empty KafkaBrokers means the in-process event sink.
type Server struct {
	Addr                string
	PostgresURL         string
	RedisURL            string
	KafkaBrokers        []string
	KafkaTopic          string
	LeaderboardCacheTTL time.Duration
	ShutdownTimeout     time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                getEnv("HACKHUB_ADDR", ":8080"),
		PostgresURL:         os.Getenv("HACKHUB_POSTGRES_URL"),
		RedisURL:            os.Getenv("HACKHUB_REDIS_URL"),
		KafkaTopic:          getEnv("HACKHUB_KAFKA_TOPIC", "hackhub.lifecycle"),
		LeaderboardCacheTTL: getDuration("HACKHUB_LEADERBOARD_CACHE_TTL", 15*time.Second),
		ShutdownTimeout:     getDuration("HACKHUB_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if brokers := os.Getenv("HACKHUB_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
