package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/telegram"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the Telegram webhook when configured)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := rt.Config
		log := rt.Logger

		server := api.NewServer(api.New(rt.App, cfg.DefaultUserID, log), logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))

		if cfg.TelegramBotToken != "" {
			if err := cfg.RequireTelegram(); err != nil {
				return err
			}
			bot, err := telegram.NewBot(cfg, rt.App, telegram.NewSessionRepository(rt.DB.SQL), log)
			if err != nil {
				return err
			}
			server.Post("/webhook", adaptor.HTTPHandlerFunc(bot.WebhookHandler()))
			log.Info("telegram webhook mounted")
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			errCh <- server.Listen(cfg.HTTPAddr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.ShutdownWithContext(ctx)
	},
}
