// Package main содержит точку входа для сервиса аутентификации.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/nutrition-app/internal/app/auth"
	"github.com/magabrotheeeer/nutrition-app/internal/config"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/logger"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, cfg.Logger)

	log.Info("starting auth-service", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := auth.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize auth app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("auth app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("auth app stopped gracefully")
}
