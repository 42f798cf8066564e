// Package api собирает HTTP API: маршруты, зависимости и жизненный цикл сервера.
package api

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// регистрирует описание Swagger
	_ "github.com/magabrotheeeer/nutrition-app/docs"
	"github.com/magabrotheeeer/nutrition-app/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/nutrition-app/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/nutrition-app/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/nutrition-app/internal/http/handlers/health"
	"github.com/magabrotheeeer/nutrition-app/internal/http/handlers/payment/paymentwebhook"
	profilehandler "github.com/magabrotheeeer/nutrition-app/internal/http/handlers/profile"
	purchasehandler "github.com/magabrotheeeer/nutrition-app/internal/http/handlers/purchase"
	"github.com/magabrotheeeer/nutrition-app/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
)

// AuthClient операции сервиса авторизации, нужные API.
type AuthClient interface {
	register.Service
	login.Service
	logout.Service
	middlewarectx.Service
}

// ProfileService операции над профилем, нужные API.
type ProfileService interface {
	profilehandler.Getter
	middlewarectx.PremiumChecker
	Replace(ctx context.Context, userUID string, p models.Profile) (*profile.View, error)
	UpdateCommon(ctx context.Context, userUID string, patch models.CommonPatch) (*profile.View, error)
	UpdateBodyCurrent(ctx context.Context, userUID string, patch models.BodyCurrentPatch) (*profile.View, error)
	UpdateBodyGoal(ctx context.Context, userUID string, patch models.BodyGoalPatch) (*profile.View, error)
	UpdateMacros(ctx context.Context, userUID string, patch models.MacrosPatch) (*profile.View, error)
	CalculateMacros(ctx context.Context, userUID string) (*profile.View, error)
	ActivateSubscription(ctx context.Context, userUID string) (*profile.View, error)
	CancelSubscription(ctx context.Context, userUID string) (*profile.View, error)
}

// PurchaseService сценарии покупки и уведомления провайдера.
type PurchaseService interface {
	purchasehandler.Service
	paymentwebhook.Service
}

// Services зависимости маршрутов.
type Services struct {
	Auth      AuthClient
	Profiles  ProfileService
	Purchases PurchaseService
}

// RouteConfig параметры маршрутов.
type RouteConfig struct {
	Version       string
	RateLimit     float64
	RateBurst     int
	WebhookSecret string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg RouteConfig, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics,
	)

	r.Get("/health", health.New(cfg.Version).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	purchases := purchasehandler.New(logger, svc.Purchases)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Post("/payments/webhook", paymentwebhook.New(logger, svc.Purchases, cfg.WebhookSecret).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))

			r.Post("/logout", logout.New(logger, svc.Auth).ServeHTTP)

			r.Get("/profile", profilehandler.NewGet(logger, svc.Profiles).ServeHTTP)
			r.Put("/profile", profilehandler.NewPatch(logger, "handlers.profile.replace", svc.Profiles.Replace).ServeHTTP)
			r.Patch("/profile/common", profilehandler.NewPatch(logger, "handlers.profile.common", svc.Profiles.UpdateCommon).ServeHTTP)
			r.Patch("/profile/body", profilehandler.NewPatch(logger, "handlers.profile.body", svc.Profiles.UpdateBodyCurrent).ServeHTTP)
			r.Patch("/profile/goal", profilehandler.NewPatch(logger, "handlers.profile.goal", svc.Profiles.UpdateBodyGoal).ServeHTTP)
			r.Post("/profile/macros/calculate", profilehandler.NewAction(logger, "handlers.profile.calculate", svc.Profiles.CalculateMacros).ServeHTTP)

			r.Post("/subscription/activate", profilehandler.NewAction(logger, "handlers.subscription.activate", svc.Profiles.ActivateSubscription).ServeHTTP)
			r.Post("/subscription/cancel", profilehandler.NewAction(logger, "handlers.subscription.cancel", svc.Profiles.CancelSubscription).ServeHTTP)

			r.Post("/purchase", purchases.Create)
			r.Get("/purchase", purchases.Status)
			r.Get("/payments", purchases.ListPayments)

			// Премиум-функции
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequirePremium(logger, svc.Profiles))
				r.Patch("/profile/macros", profilehandler.NewPatch(logger, "handlers.profile.macros", svc.Profiles.UpdateMacros).ServeHTTP)
			})
		})
	})
}
