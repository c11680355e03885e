package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bella-chat/backend/internal/graph"
	"bella-chat/backend/pkg/config"
	"bella-chat/backend/pkg/logger"
)

func main() {
	var force bool

	cmd := &cobra.Command{
		Use:          "bella-migrate",
		Short:        "Create the Neo4j constraints and indexes used by the HIFIS export",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Force migration even if already applied")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func migrate(ctx context.Context, force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Neo4j schema migration...")

	if !cfg.GraphExportEnabled() {
		return fmt.Errorf("NEO4J_URI is not set")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	repo, err := graph.Connect(connectCtx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	cancel()
	if err != nil {
		log.Error("Failed to connect to Neo4j", zap.Error(err))
		return err
	}
	defer repo.Close()

	if !force {
		applied, err := repo.SchemaApplied(ctx)
		if err != nil {
			log.Error("Failed to check migration status", zap.Error(err))
			return err
		}
		if applied {
			log.Info("Migration already applied. Use --force to reapply.")
			return nil
		}
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Error("Migration failed", zap.Error(err))
		return err
	}

	log.Info("Migration completed successfully!", zap.String("version", graph.SchemaVersion))
	return nil
}
