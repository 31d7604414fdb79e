package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"photomind/internal/bootstrap"
	"photomind/internal/config"
	"photomind/internal/pkg/logger"
)

// Tags written when no names are passed on the command line.
var defaultTags = []string{
	"Animal", "Beach", "Building", "City", "Dog", "Cat", "Food", "Forest",
	"Mountain", "Nature", "Outdoors", "Person", "Sea", "Sky", "Snow",
	"Sunset", "Tree", "Vehicle", "Water",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := bootstrap.BuildMetadata(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to build metadata stores", zap.Error(err))
	}
	defer func() { _ = stores.Close() }()

	zl.Info("Ensuring schema", zap.String("metadata_store", cfg.Metadata.Backend))
	if err := stores.Images.EnsureSchema(ctx); err != nil {
		zl.Fatal("Failed to ensure images schema", zap.Error(err))
	}
	if err := stores.Tags.EnsureSchema(ctx); err != nil {
		zl.Fatal("Failed to ensure tags schema", zap.Error(err))
	}

	tags := defaultTags
	if len(os.Args) > 1 {
		tags = os.Args[1:]
	}
	if err := stores.Tags.Upsert(ctx, tags); err != nil {
		zl.Fatal("Failed to seed tags", zap.Error(err))
	}

	names, err := stores.Tags.ListNames(ctx)
	if err != nil {
		zl.Fatal("Failed to read tags back", zap.Error(err))
	}
	zl.Info("Seed completed", zap.Int("seeded", len(tags)), zap.Int("catalog_size", len(names)))
}
