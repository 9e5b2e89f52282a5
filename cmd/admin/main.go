package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"flightclaim/backend/internal/config"
	"flightclaim/backend/internal/logger"
	"flightclaim/backend/internal/storage"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	var root = &cobra.Command{
		Use:           "admin",
		Short:         "Maintenance commands for the flight claim backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		migrateCMD(),
		createAdminCMD(),
		seedAirportsCMD(),
		seedKnowledgeCMD(),
		claimStatusCMD(),
		gmailTokenCMD(),
	)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env bundles what most commands need: config, logger and an open database.
type env struct {
	cfg   *config.Config
	log   logger.Logger
	db    *gorm.DB
	store *storage.Service
}

func openEnv() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	// No redis needed for the CLI
	return &env{
		cfg:   cfg,
		log:   logger.NewLogger(cfg.LogLevel),
		db:    db,
		store: storage.NewStorageService(db, nil),
	}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
}
