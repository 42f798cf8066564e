// Package main Nutrition API
//
// @title           Nutrition API
// @version         1.0
// @description     API профиля, подписки и покупок приложения питания

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/nutrition-app/internal/app/api"
	"github.com/magabrotheeeer/nutrition-app/internal/config"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/logger"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, cfg.Logger)

	log.Info("starting nutrition-api", slog.String("env", cfg.Env), slog.String("version", cfg.Version))
	log.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := api.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("nutrition-api stopped gracefully")
}
