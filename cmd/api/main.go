package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webshop/internal/assets"
	"webshop/internal/benchmark"
	"webshop/internal/config"
	"webshop/internal/database"
	"webshop/internal/handler"
	"webshop/internal/repository"
	"webshop/internal/router"
	"webshop/internal/service"
	"webshop/internal/simulator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting webshop API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Run schema migrations
	if err := database.Migrate(pool, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Mirror product images from S3 when enabled. A failed sync is not
	// fatal; the local directory is served either way.
	if cfg.Assets.S3Enabled {
		mirror, err := assets.NewMirror(ctx, cfg.Assets, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 image mirror, serving local images only")
		} else if err := mirror.Sync(ctx); err != nil {
			logger.Warn().Err(err).Msg("image mirror sync failed, serving local images only")
		}
	} else {
		logger.Info().Msg("serving product images from local directory (S3 disabled)")
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)

	// Initialize the in-memory benchmark store
	benchmarkStore := benchmark.NewStore(cfg.Benchmark.Capacity, logger)

	// Start the delivery tracking simulator
	if cfg.Simulator.Enabled {
		sim := simulator.New(orderRepo, cfg.Simulator, logger)
		sim.Start(ctx)
		defer sim.Stop()
	} else {
		logger.Info().Msg("tracking simulator disabled")
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	benchmarkHandler := handler.NewBenchmarkHandler(benchmarkStore, logger)

	// Initialize router
	mux := router.New(productHandler, orderHandler, benchmarkHandler, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
