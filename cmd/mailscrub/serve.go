package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fernwehlabs/mailscrub/internal/bot"
	"github.com/fernwehlabs/mailscrub/internal/config"
	"github.com/fernwehlabs/mailscrub/internal/logging"
	"github.com/fernwehlabs/mailscrub/internal/metrics"
	"github.com/fernwehlabs/mailscrub/internal/server"
	"github.com/fernwehlabs/mailscrub/pkg/cleaner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and HTTP server",
	Long: `Run the bot's long-polling update loop alongside the HTTP server
that serves the health and metrics endpoints.

Examples:
  # Run with environment configuration
  TELEGRAM_TOKEN=123:abc mailscrub serve

  # Run with a config file
  mailscrub serve --config /etc/mailscrub/config.yaml`,
	RunE: runServe,
}

// runServe wires configuration, logging, metrics, the Telegram client,
// the bot loop and the HTTP server, then blocks until SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if !cfg.Telegram.Token.IsSet() {
		return errors.New("telegram token is required: set TELEGRAM_TOKEN or telegram.token in the config file")
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logging.Sync(logger)

	logger.Info("starting mailscrub",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Int("max_file_size_mb", cfg.Telegram.MaxFileSizeMB),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := metrics.New(logger)
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	defer func() {
		if err := m.Shutdown(context.Background()); err != nil {
			logger.Warn("metrics shutdown failed", zap.Error(err))
		}
	}()

	client, err := bot.Dial(ctx, cfg.Telegram.Token.Value(), logger)
	if err != nil {
		return err
	}

	b, err := bot.New(client, bot.Config{
		PollTimeout: cfg.Telegram.PollTimeout.Duration(),
		MaxFileSize: cfg.Telegram.MaxFileSize(),
		SendRate:    cfg.Telegram.SendRate,
		Cleaning: cleaner.Options{
			Deobfuscate:   cfg.Cleaner.Deobfuscate,
			RepairDomains: cfg.Cleaner.RepairDomains,
			SortByDomain:  cfg.Cleaner.SortByDomain,
		},
	}, logger, m)
	if err != nil {
		return fmt.Errorf("initializing bot: %w", err)
	}

	srv, err := server.New(cfg.Server, logger, m.Handler())
	if err != nil {
		return fmt.Errorf("initializing http server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return b.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
