package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velkyr/account-api/internal/auth"
	"github.com/velkyr/account-api/internal/config"
	"github.com/velkyr/account-api/internal/database"
	httpServer "github.com/velkyr/account-api/internal/http"
	"github.com/velkyr/account-api/internal/logging"
	"github.com/velkyr/account-api/internal/ratelimit"
	"github.com/velkyr/account-api/internal/user"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Connect to the database (bounded retry) and run migrations
	db, err := database.Connect(context.Background(), cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Redis is optional at startup: without it the rate limiter fails open
	// and the health check reports degraded.
	redisClient := initRedis(cfg.Redis, logger)
	defer redisClient.Close()

	// Repositories and services
	userRepo := user.NewRepository(db)

	pasetoService, err := auth.NewPasetoService(cfg.Auth.TokenKey)
	if err != nil {
		return fmt.Errorf("failed to initialize PASETO service: %w", err)
	}

	rateLimiter := ratelimit.NewLimiter(redisClient)

	authService := auth.NewService(userRepo, pasetoService, logger, cfg.Auth.TokenDuration)
	userService := user.NewService(userRepo, logger)

	isProduction := !cfg.Server.IsDevelopment()

	// HTTP handlers
	authHandler := auth.NewHandler(authService, rateLimiter, logger, isProduction)
	userHandler := user.NewHandler(userService, logger, isProduction)
	authMiddleware := auth.NewMiddleware(pasetoService, userRepo)
	healthHandler := httpServer.NewHealthHandler(db, redisPinger{redisClient}, logger)

	router := httpServer.NewRouter(cfg, authHandler, userHandler, authMiddleware, healthHandler, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initRedis creates the Redis client and logs whether it is reachable
func initRedis(cfg config.RedisConfig, logger *logging.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting degraded", "error", err.Error())
	}

	return client
}

// redisPinger adapts a redis client to the health check's Pinger interface
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
