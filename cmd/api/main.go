package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promo-admin/internal/config"
	"promo-admin/internal/database"
	"promo-admin/internal/gift"
	"promo-admin/internal/handler"
	"promo-admin/internal/repository"
	"promo-admin/internal/router"
	"promo-admin/internal/service"
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

	logger := config.NewLogger(cfg.Logger, os.Stdout)
	logger.Info().Msg("starting promotions API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	promotionRepo := repository.NewPromotionRepository(pool, logger)

	// Gift catalog files come from S3 when enabled, with the local file
	// system as fallback.
	fileLoader := gift.NewFileLoader(logger)
	var s3Loader gift.Loader
	if cfg.S3.Enabled {
		s3Loader, err = gift.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	} else {
		logger.Info().Msg("using local file system for gift catalog files (S3 disabled)")
	}
	giftLoader := gift.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)

	catalog, err := gift.LoadCatalog(ctx, cfg.GiftCatalog.Files, giftLoader, logger)
	if err != nil {
		return fmt.Errorf("failed to load gift catalog: %w", err)
	}

	promotionService := service.NewPromotionService(promotionRepo, logger)
	giftService := service.NewGiftService(catalog, logger)

	promotionHandler := handler.NewPromotionHandler(promotionService, logger)
	giftHandler := handler.NewGiftHandler(giftService, logger)

	mux := router.New(promotionHandler, giftHandler, cfg.Auth.APIKey, logger)
	if cfg.Auth.APIKey == "" {
		logger.Warn().Msg("API_KEY is not set, requests are not authenticated")
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Int("gifts", catalog.Size()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
