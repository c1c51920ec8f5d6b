package main

import (
	"fmt"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stylebot/internal/bot"
	"stylebot/internal/config"
	"stylebot/internal/health"
	"stylebot/internal/registry"
	"stylebot/internal/store"
	"stylebot/internal/style"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot, health server, and keepalive pinger",
	Long: `Starts the Telegram long-polling loop, the HTTP health endpoints, and
(when configured) the keepalive self-pinger, and runs until SIGINT/SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	catalog, engine, err := style.NewCatalog()
	if err != nil {
		return fmt.Errorf("style catalog: %w", err)
	}

	st, err := store.New(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("usage store: %w", err)
	}
	defer st.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return fmt.Errorf("telegram connect: %w", err)
	}
	logger.Info("authorized", zap.String("bot", api.Self.UserName))

	reg := registry.New(cfg.Registry.Capacity)
	b := bot.New(api, cfg, catalog, engine, reg, st, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(ctx) })
	g.Go(func() error { return health.NewServer(cfg.HTTP.Addr, logger).Run(ctx) })
	g.Go(func() error {
		return health.Keepalive(ctx, nil, cfg.HTTP.KeepaliveURL, cfg.GetKeepaliveInterval(), logger)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
