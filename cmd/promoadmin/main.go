package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"promo-admin/internal/apiclient"
	"promo-admin/internal/config"
	"promo-admin/internal/console"
	"promo-admin/internal/controller"
	"promo-admin/internal/query"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConsole()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The console owns stdout, so logs go to stderr.
	logger := config.NewLogger(cfg.Logger, os.Stderr)

	policy, err := controller.ParseResponsePolicy(cfg.ResponsePolicy)
	if err != nil {
		return err
	}

	api, err := apiclient.New(cfg.APIURL,
		apiclient.WithAPIKey(cfg.APIKey),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con := console.New(os.Stdout, logger)
	ctrl := controller.New(api, logger, controller.Options{
		InitialParams:  query.Default().SetPageSize(cfg.PageSize),
		SearchDelay:    cfg.SearchDebounce,
		ResponsePolicy: policy,
		OnChange:       con.OnChange,
	})
	defer ctrl.Close()
	con.Bind(ctrl)

	logger.Info().
		Str("api_url", cfg.APIURL).
		Str("response_policy", policy.String()).
		Msg("starting promotions console")

	ctrl.Start(ctx)
	return con.Run(ctx, os.Stdin)
}
