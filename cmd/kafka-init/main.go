package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stellarwallet/relay/internal/obs"
	kafkarepo "github.com/stellarwallet/relay/internal/repository/kafka"
)

// Creates the delivery-events topic and waits for partition leaders.
// KAFKA_BROKERS, KAFKA_TOPIC, KAFKA_PARTITIONS, KAFKA_RF and KAFKA_RETENTION
// override the defaults.
func main() {
	logger, err := obs.NewLogger(obs.LogConfig{Level: "info", App: "relay-kafka-init"})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	brokers := splitList(env("KAFKA_BROKERS", "localhost:9094"))
	topic := env("KAFKA_TOPIC", "relay.deliveries")
	spec := kafkarepo.TopicSpec{
		Name:              topic,
		NumPartitions:     envInt("KAFKA_PARTITIONS", 1),
		ReplicationFactor: envInt("KAFKA_RF", 1),
		Retention:         envDuration("KAFKA_RETENTION", 168*time.Hour),
		MaxWait:           30 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := kafkarepo.EnsureTopic(ctx, brokers, spec, logger); err != nil {
		logger.Fatal("ensure topic", zap.String("topic", topic), zap.Error(err))
	}
	logger.Info("kafka-init ok", zap.String("topic", topic))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, _ := strconv.Atoi(v); n > 0 {
			return n
		}
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}
