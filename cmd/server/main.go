package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/greenbasket/storefront/internal/api"
	"github.com/greenbasket/storefront/internal/cart"
	"github.com/greenbasket/storefront/internal/checkout"
	"github.com/greenbasket/storefront/internal/config"
	"github.com/greenbasket/storefront/internal/payments/card"
	"github.com/greenbasket/storefront/internal/payments/wallet"
	"github.com/greenbasket/storefront/internal/platform"
	"github.com/greenbasket/storefront/internal/repository/postgres"
)

func main() {
	// Load shared .env from repo root when present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting storefront server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := postgres.RunMigrations(db, "migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// Initialize Redis (cart storage and checkout locks)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize clients and services
	platformClient := platform.NewClient(cfg.Platform, logger)
	cardClient := card.NewClient(cfg.CardGateway, logger)
	gateways := map[string]*wallet.Gateway{
		wallet.ProviderPayFast: wallet.NewGateway(wallet.ProviderPayFast, cfg.PayFast),
		wallet.ProviderEasyPay: wallet.NewGateway(wallet.ProviderEasyPay, cfg.EasyPay),
	}
	cartStore := cart.NewStore(redisClient, logger)
	checkoutService := checkout.NewService(platformClient, cardClient, cartStore, gateways, repos, logger)

	// Initialize router
	router := api.NewRouter(api.Dependencies{
		Config:   cfg,
		Platform: platformClient,
		Carts:    cartStore,
		Checkout: checkoutService,
		Repos:    repos,
		Redis:    redisClient,
		Logger:   logger,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
