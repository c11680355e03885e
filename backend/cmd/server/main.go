package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bella-chat/backend/internal/adapter"
	"bella-chat/backend/internal/agent"
	"bella-chat/backend/internal/analytics"
	"bella-chat/backend/internal/constants"
	"bella-chat/backend/internal/graph"
	"bella-chat/backend/internal/metrics"
	"bella-chat/backend/internal/state"
	"bella-chat/backend/internal/ui"
	"bella-chat/backend/internal/web"
	"bella-chat/backend/pkg/config"
	"bella-chat/backend/pkg/logger"
)

const metricsNamespace = "bella"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting BELLA chat server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	log.Info("Server exited")
}

// run serves until ctx is cancelled, then shuts down gracefully
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	router, cleanup, err := buildRouter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// buildRouter wires every component. The returned cleanup closes the Neo4j
// driver when one was opened.
func buildRouter(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	if _, ok := constants.ModelVersions[cfg.DefaultModel]; !ok {
		return nil, nil, fmt.Errorf("DEFAULT_MODEL %q is not one of %v", cfg.DefaultModel, constants.ModelNames)
	}

	collector := metrics.NewCollector(metricsNamespace)

	store := state.NewStoreWithLimits(cfg.DefaultModel, cfg.ReplicateAPIToken, cfg.SessionIdleTimeout, cfg.MaxSessions)
	collector.RegisterSessionGauge(metricsNamespace, store.Count)

	llmAdapter := adapter.NewLLMAdapter(cfg.LiteLLMURL)
	orchestrator := agent.NewOrchestrator(llmAdapter, adapter.Params{
		Temperature:       cfg.Temperature,
		TopP:              cfg.TopP,
		MaxLength:         cfg.MaxLength,
		RepetitionPenalty: cfg.RepetitionPenalty,
	})
	orchestrator.SetObserver(collector)

	aggregator := analytics.NewAggregator(analytics.NewVaderScorer(), time.Now)
	controller := ui.NewController(store, orchestrator, aggregator)
	controller.SetRecorder(collector)

	cleanup := func() {}
	if cfg.GraphExportEnabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		repo, err := graph.Connect(connectCtx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		cancel()
		if err != nil {
			// the chat works without the export, so keep serving
			log.Warn("HIFIS export disabled", zap.Error(err))
		} else {
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Warn("Failed to ensure Neo4j schema", zap.Error(err))
			}
			controller.SetExporter(repo)
			cleanup = func() {
				if err := repo.Close(); err != nil {
					log.Warn("Failed to close Neo4j driver", zap.Error(err))
				}
			}
			log.Info("HIFIS export enabled", zap.String("neo4j_uri", cfg.Neo4jURI))
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := web.NewRouter(web.Options{
		Controller:    controller,
		Metrics:       collector,
		Logger:        log,
		SecureCookies: cfg.IsProduction(),
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to build router: %w", err)
	}
	return router, cleanup, nil
}
