// main.go
package main

import (
	"log"
	"time"

	"film-social/cmd"
	"film-social/internal/data/repository"
	"film-social/internal/usecase"
	"film-social/internal/wire"
	"film-social/pkg/cache"
	"film-social/pkg/database"
	"film-social/pkg/metrics"
	"film-social/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Result cache, optional
	var resultCache cache.Cache = cache.Noop{}
	if config.Redis.Addr != "" {
		client, err := cache.NewRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		ttl := time.Duration(config.Redis.TTLSeconds) * time.Second
		resultCache = cache.NewRedisCache(client, ttl, logger)
		logger.Info("Redis cache enabled", zap.String("addr", config.Redis.Addr), zap.Duration("ttl", ttl))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, usecase.Options{
		Cache:   resultCache,
		Metrics: metrics.New(),
		Clock:   time.Now,
	}, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port, logger)
}
