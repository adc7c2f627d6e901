package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"salas/pkg/config"
	"salas/pkg/events"
	"salas/pkg/kafka"
	kafkamiddleware "salas/pkg/kafka/middleware"
)

const ServiceName = "audit"

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.EventsEnabled || cfg.Kafka == nil {
		cfg.Log.Fatal("Audit consumer requires EVENTS_ENABLED=true and Kafka configuration")
	}

	consumer, err := kafka.NewConsumer(
		cfg.Kafka,
		cfg.EventsTopic,
		cfg.EventsGroupID,
		cfg.EventsDLQTopic,
		events.AuditHandler(cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := &kafkamiddleware.Metrics{}
	consumer.Use(kafkamiddleware.Logging(cfg.Log, kafkamiddleware.OpConsume), metrics.Consume())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting audit consumer", "topic", cfg.EventsTopic, "group_id", cfg.EventsGroupID)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Audit consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Audit consumer stopped", metrics.Snapshot().Attrs()...)
}
