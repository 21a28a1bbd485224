package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/enrollment-sync/pkg/config"
	"github.com/ekaya-inc/enrollment-sync/pkg/ebs"
	"github.com/ekaya-inc/enrollment-sync/pkg/hubspot"
	"github.com/ekaya-inc/enrollment-sync/pkg/sync"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger = logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("version", Version))

	logger.Info("Enrollment sync started",
		zap.String("db_server", cfg.Database.Server),
		zap.String("db_name", cfg.Database.Name),
		zap.Int("batch_size", cfg.Sync.BatchSize))

	ctx := context.Background()

	source, err := ebs.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("Could not connect to EBS", zap.Error(err))
	}
	defer source.Close()

	crm := hubspot.NewClient(cfg.HubSpot.BaseURL, cfg.HubSpot.PrivateKey, logger)

	svc := sync.NewService(source, crm, sync.Options{
		BatchSize:        cfg.Sync.BatchSize,
		BatchPause:       time.Duration(cfg.Sync.BatchPauseSeconds) * time.Second,
		AssociationPause: time.Duration(cfg.Sync.AssociationPauseMillis) * time.Millisecond,
	}, logger)

	report, err := svc.Run(ctx)
	if err != nil {
		logger.Fatal("Sync run aborted", zap.Error(err))
	}

	logger.Info("Enrollment sync finished",
		zap.Int("contacts", report.Contacts.Total),
		zap.Int("applications", report.Applications.Total),
		zap.Int("association_pairs", report.Associations.Pairs))
}
