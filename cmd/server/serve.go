package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agri-advisor/internal/adapter/api"
	"agri-advisor/internal/adapter/client"
	"agri-advisor/internal/adapter/store"
	"agri-advisor/internal/db"
	"agri-advisor/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Redis for chat history and token usage
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = rdb.Ping(pingCtx).Err()
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	genaiClient, err := client.NewGenAIClient(ctx, client.GenAIConfig{
		APIKey:   cfg.GeminiAPIKey,
		Project:  cfg.GoogleProject,
		Location: cfg.GoogleLocation,
	})
	if err != nil {
		return err
	}
	provider := usecase.NewTimeoutProvider(client.NewGeminiClientFromClient(genaiClient, cfg.GeminiModel), cfg.AITimeout)

	commands, err := usecase.LoadCommandTable(cfg.CommandsFile)
	if err != nil {
		return err
	}
	assembler := usecase.NewAssembler(commands, provider, logger,
		usecase.WithChatMaxTokens(cfg.ChatMaxTokens),
		usecase.WithRecommendMaxTokens(cfg.RecommendMaxTokens),
	)

	usage := store.NewRedisUsage(rdb)
	opts := []usecase.OrchestratorOption{usecase.WithHistoryLimit(cfg.HistoryLimit)}

	var embedder *client.Embedder
	if cfg.ArchiveEnabled() {
		// Qdrant for the semantic chat archive
		qClient, err := qdrant.NewClient(&qdrant.Config{
			Host: cfg.QdrantHost,
			Port: cfg.QdrantPort,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to qdrant: %w", err)
		}
		defer qClient.Close()

		archive := store.NewQdrantArchive(qClient, cfg.QdrantCollection, logger)
		if err := archive.InitCollection(ctx, client.DefaultEmbeddingDim); err != nil {
			return fmt.Errorf("failed to init qdrant collection: %w", err)
		}
		embedder = client.NewEmbedderFromClient(genaiClient, cfg.EmbedModel)
		opts = append(opts, usecase.WithArchive(archive, embedder, cfg.ArchiveRetention))
	} else {
		logger.Info("QDRANT_HOST not set, chat archive disabled")
	}

	orchestrator := usecase.NewOrchestrator(store.NewRedisHistory(rdb, cfg.HistoryRetain), usage, assembler, logger, opts...)

	users := store.NewSQLiteUserRepo(database)
	lands := store.NewSQLiteLandRepo(database)
	orders := store.NewSQLiteOrderRepo(database)

	server := fiber.New(fiber.Config{
		AppName:               "Agri Advisor",
		DisableStartupMessage: true,
	})
	api.SetupRouter(server, api.Handlers{
		Chat:     api.NewChatHandler(orchestrator),
		Advice:   api.NewAdviceHandler(usecase.NewAdvisor(assembler, lands, usage, logger)),
		Accounts: api.NewAccountHandler(usecase.NewAccountService(users)),
		Lands:    api.NewLandHandler(usecase.NewLandService(lands, users)),
		Orders:   api.NewOrderHandler(usecase.NewOrderService(orders, users)),
	})

	g, gctx := errgroup.WithContext(ctx)

	if embedder != nil {
		g.Go(func() error {
			warmCtx, cancel := context.WithTimeout(gctx, 30*time.Second)
			defer cancel()
			if _, err := embedder.CreateEmbedding(warmCtx, "warmup"); err != nil {
				logger.Warn("embedder warm-up failed", zap.Error(err))
				return nil
			}
			logger.Debug("embedder warm-up complete")
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("agri advisor listening", zap.String("port", cfg.Port))
		if err := server.Listen(":" + cfg.Port); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := orchestrator.Drain(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("draining archive writes: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
