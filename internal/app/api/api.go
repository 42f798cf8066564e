package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/nutrition-app/internal/config"
	"github.com/magabrotheeeer/nutrition-app/internal/grpc/client"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/migrations"
	"github.com/magabrotheeeer/nutrition-app/internal/paymentprovider"
	"github.com/magabrotheeeer/nutrition-app/internal/rabbitmq"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
	"github.com/magabrotheeeer/nutrition-app/internal/services/purchase"
	"github.com/magabrotheeeer/nutrition-app/internal/storage/cache"
	"github.com/magabrotheeeer/nutrition-app/internal/storage/repository"
)

// App HTTP API вместе с его подключениями.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	authClient *client.AuthClient
	conn       *amqp.Connection
	ch         *amqp.Channel
}

func waitForDB(db *repository.Storage) error {
	var err error
	for range 10 {
		if err = repository.CheckDatabaseReady(db); err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}

// New подключается к хранилищам и сервисам и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	a := &App{logger: logger, db: db}

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		a.close()
		return nil, err
	}
	if err := waitForDB(db); err != nil {
		a.close()
		return nil, err
	}

	a.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	a.authClient, err = client.NewAuthClient(cfg.GRPCAuthAddress)
	if err != nil {
		a.close()
		return nil, err
	}

	a.conn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	a.ch, err = rabbitmq.SetupChannel(a.conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	profiles := profile.NewService(db, a.cache, logger)
	purchases := purchase.NewService(logger, cfg.PaymentProvider,
		paymentprovider.NewClient(cfg.PaymentProvider), db, profiles, rabbitmq.NewPublisher(a.ch))

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteConfig{
		Version:       cfg.Version,
		RateLimit:     cfg.RateLimit,
		RateBurst:     cfg.RateBurst,
		WebhookSecret: cfg.WebhookSecret,
	}, Services{
		Auth:      a.authClient,
		Profiles:  profiles,
		Purchases: purchases,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.authClient != nil {
		if err := a.authClient.Close(); err != nil {
			a.logger.Error("failed to close auth client", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
