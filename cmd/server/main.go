package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collab-service/internal/api"
	"collab-service/internal/config"
	"collab-service/internal/database"
	"collab-service/internal/repositories/mongodb"
	"collab-service/internal/repositories/postgres"
	"collab-service/internal/session"
)

func main() {
	logger := slog.Default()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("starting collaboration server")

	stores, cleanup, err := buildStores(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to store backend", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	hub := session.NewHub(stores, logger)

	bridgeCtx, bridgeCancel := context.WithCancel(context.Background())
	defer bridgeCancel()
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisConnection(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		bridge := session.NewBridge(redisClient, hub, logger)
		hub.SetPublisher(bridge)
		go bridge.Run(bridgeCtx)
	}

	go hub.Run()

	router := api.NewRouter(hub, cfg.AllowedOrigins, logger)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:      router.Engine(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Stop()
	bridgeCancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

// buildStores wires the store adapters. DATABASE_URL selects PostgreSQL;
// otherwise the stores run on MongoDB, the default backend.
func buildStores(cfg *config.Config, logger *slog.Logger) (session.Stores, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return session.Stores{}, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return session.Stores{}, nil, err
		}
		logger.Info("store backend ready", "backend", "postgres")
		return session.Stores{
			Documents: postgres.NewDocumentRepository(db),
			Chats:     postgres.NewChatRepository(db),
			Projects:  postgres.NewProjectRepository(db),
		}, func() {}, nil
	}

	mongo, err := database.NewMongoConnection(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return session.Stores{}, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongo.Close(ctx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
	logger.Info("store backend ready", "backend", "mongodb", "database", cfg.MongoDB)
	return session.Stores{
		Documents: mongodb.NewDocumentRepository(mongo),
		Chats:     mongodb.NewChatRepository(mongo),
		Projects:  mongodb.NewProjectRepository(mongo),
	}, cleanup, nil
}
