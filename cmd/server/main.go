package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"heartcheck/internal/cache"
	"heartcheck/internal/config"
	"heartcheck/internal/repository"
	"heartcheck/internal/service"
	"heartcheck/internal/store"
	"heartcheck/internal/transport/rest"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	aiCfg := config.DefaultAIConfig()
	if aiCfg.IsEnabled() {
		logger.Info("AI extraction enabled", zap.String("model", aiCfg.Models.Extract))
	} else {
		logger.Info("AI extraction disabled, using rule parser only")
	}
	if aiCfg.RiskModelURL != "" {
		logger.Info("ML risk model enabled", zap.String("url", aiCfg.RiskModelURL))
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("failed to ping Redis", zap.Error(err))
	}
	logger.Info("connected to Redis")

	// Repositories and caches
	patientStore := repository.NewPatientStore(db)
	populationRepo := repository.NewPopulationRepo(db)
	statsCache := cache.NewStatsCache(rdb, cfg.StatsTTL)
	sessions := store.NewMemoryStore(cfg.SessionTTL)

	// Services
	extractor := service.NewExtractor(aiCfg, logger)
	mlClient := service.NewMLRiskClient(aiCfg, logger)
	populationSvc := service.NewPopulationService(populationRepo, statsCache, logger)
	riskSvc := service.NewRiskService(mlClient, populationSvc, logger)
	conversationSvc := service.NewConversationService(
		sessions, extractor, riskSvc, patientStore, cfg.PersistTimeout, logger)

	router := rest.NewRouter(&rest.Container{
		ConversationService: conversationSvc,
		RiskService:         riskSvc,
		PopulationService:   populationSvc,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
