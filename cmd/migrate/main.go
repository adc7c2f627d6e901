package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	migrations "salas/internal/migrations/mongo"
	"salas/pkg/config"
)

const (
	jobName          = "mongo-migration"
	migrationTimeout = 2 * time.Minute
)

func main() {
	cfg := config.Load(jobName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	cfg.SetMongo()

	names := make([]string, 0, len(migrations.Collections()))
	for _, def := range migrations.Collections() {
		names = append(names, def.Name)
	}
	cfg.Log.Info("Applying collection schemas and indexes", "database", cfg.MongoDatabaseName, "collections", names)

	err := migrations.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
	cfg.GracefulShutdown()
	if err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed")
}
