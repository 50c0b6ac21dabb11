// Command dataset-refresh replaces the local dataset snapshot with a fresh
// download and verifies that it parses and loads. The API server never touches
// the snapshot while serving; refresh it with this tool, then restart.
package main

import (
	"context"
	"flag"
	"time"

	"swiss-zipcode-api/internal/dataset"
	"swiss-zipcode-api/internal/zipcode/repository"
	"swiss-zipcode-api/platform/config"
	"swiss-zipcode-api/platform/logger"
)

func main() {
	force := flag.Bool("force", true, "replace an existing snapshot")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout for download and verification")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting dataset refresh", "url", cfg.DatasetURL, "dir", cfg.DatasetDir, "force", *force)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	provider := dataset.NewProvider(cfg, log)
	if err := provider.Ensure(ctx, *force); err != nil {
		log.Error("dataset refresh failed", "error", err)
		panic("dataset refresh failed: " + err.Error())
	}

	// Verify the new snapshot end to end before declaring success: a snapshot
	// that downloads but does not load would take the API down on its next
	// restart.
	rows, err := dataset.ParseFile(provider.SnapshotPath())
	if err != nil {
		log.Error("snapshot verification failed", "error", err)
		panic("snapshot verification failed: " + err.Error())
	}

	store, err := repository.Load(rows)
	if err != nil {
		log.Error("snapshot verification failed", "error", err)
		panic("snapshot verification failed: " + err.Error())
	}

	log.Info("dataset refreshed",
		"path", provider.SnapshotPath(),
		"records", store.Len(),
		"municipalities", len(store.Municipalities()),
		"cantons", len(store.Cantons()),
	)
}
