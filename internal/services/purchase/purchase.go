// Package purchase реализует покупку пожизненного доступа: создание платежа
// у провайдера и обработку его уведомлений.
package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nutrition-app/internal/config"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/metrics"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/paymentprovider"
	"github.com/magabrotheeeer/nutrition-app/internal/rabbitmq"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
)

var (
	// ErrAlreadyPurchased пожизненный доступ уже куплен.
	ErrAlreadyPurchased = errors.New("lifetime access already purchased")
	// ErrInvalidEvent уведомление не удалось разобрать.
	ErrInvalidEvent = errors.New("invalid webhook event")
)

// Provider платёжный провайдер.
type Provider interface {
	CreatePayment(ctx context.Context, params paymentprovider.CreatePaymentRequest) (*paymentprovider.Payment, error)
}

// Repository хранилище платежей и пользователей.
type Repository interface {
	SavePayment(ctx context.Context, p models.Payment) (int, bool, error)
	ListPayments(ctx context.Context, userUID string) ([]models.Payment, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ProfileService операции над профилем, нужные покупке.
type ProfileService interface {
	Get(ctx context.Context, userUID string) (*profile.View, error)
	ApplyLifetimePurchase(ctx context.Context, userUID, transactionID string, at time.Time) (*profile.View, error)
}

// Publisher публикует уведомления.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Status состояние покупки пользователя.
type Status struct {
	Type          models.PurchaseType `json:"type"`
	PurchasedAt   *time.Time          `json:"purchased_at,omitempty"`
	TransactionID string              `json:"transaction_id,omitempty"`
	Premium       bool                `json:"premium"`
	Features      []string            `json:"features"`
}

// Service реализует сценарии покупки.
type Service struct {
	log       *slog.Logger
	provider  Provider
	repo      Repository
	profiles  ProfileService
	publisher Publisher
	price     string
	currency  string
	now       func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(log *slog.Logger, cfg config.PaymentProvider, provider Provider, repo Repository,
	profiles ProfileService, publisher Publisher) *Service {
	return &Service{
		log:       log,
		provider:  provider,
		repo:      repo,
		profiles:  profiles,
		publisher: publisher,
		price:     cfg.LifetimePrice,
		currency:  cfg.Currency,
		now:       time.Now,
	}
}

// CreateLifetimePayment создаёт у провайдера платёж за пожизненный доступ.
// Доступ выдаётся после уведомления payment.succeeded.
func (s *Service) CreateLifetimePayment(ctx context.Context, userUID, paymentToken string) (*paymentprovider.Payment, error) {
	const op = "services.purchase.CreateLifetimePayment"

	view, err := s.profiles.Get(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if view.Profile.Purchase.Type == models.PurchaseLifetime {
		return nil, ErrAlreadyPurchased
	}

	payment, err := s.provider.CreatePayment(ctx, paymentprovider.CreatePaymentRequest{
		Amount:       paymentprovider.Amount{Value: s.price, Currency: s.currency},
		PaymentToken: paymentToken,
		Capture:      true,
		Description:  "Lifetime premium access",
		Metadata: map[string]string{
			"user_uid": userUID,
			"product":  models.ProductLifetime,
		},
	})
	if err != nil {
		metrics.RecordPurchase("failed")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordPurchase(payment.Status)
	s.log.Info("lifetime payment created",
		slog.String("user_uid", userUID),
		slog.String("payment_id", payment.ID),
		slog.String("status", payment.Status))
	return payment, nil
}

// ProcessWebhookEvent обрабатывает уведомление провайдера.
// Повторное уведомление о той же транзакции не меняет состояние.
func (s *Service) ProcessWebhookEvent(ctx context.Context, payload []byte) error {
	const op = "services.purchase.ProcessWebhookEvent"

	var event paymentprovider.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidEvent, err)
	}
	log := s.log.With(slog.String("op", op), slog.String("event", event.Event), slog.String("payment_id", event.Object.ID))

	if event.Event != paymentprovider.EventPaymentSucceeded {
		log.Info("webhook event ignored")
		return nil
	}
	userUID := event.Object.Metadata["user_uid"]
	product := event.Object.Metadata["product"]
	if event.Object.ID == "" || userUID == "" {
		return fmt.Errorf("%s: %w: missing payment id or user uid", op, ErrInvalidEvent)
	}
	if product != models.ProductLifetime {
		log.Info("webhook for unknown product ignored", slog.String("product", product))
		return nil
	}

	amount, err := paymentprovider.ParseAmount(event.Object.Amount.Value)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrInvalidEvent, err)
	}

	_, created, err := s.repo.SavePayment(ctx, models.Payment{
		UserUID:       userUID,
		TransactionID: event.Object.ID,
		Product:       product,
		Amount:        amount,
		Currency:      event.Object.Amount.Currency,
		Status:        models.PaymentSucceeded,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		// платёж уже записан, но выдача доступа могла упасть на прошлой доставке
		current, err := s.profiles.Get(ctx, userUID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if current.Profile.Purchase.Type == models.PurchaseLifetime {
			log.Info("duplicate webhook, access already granted")
			return nil
		}
		log.Warn("payment recorded without access, granting again")
	}

	purchasedAt := s.now().UTC()
	view, err := s.profiles.ApplyLifetimePurchase(ctx, userUID, event.Object.ID, purchasedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordPurchase(models.PaymentSucceeded)

	receipt := models.PurchaseReceipt{
		UserUID:       userUID,
		Email:         view.Profile.Common.Email,
		Username:      view.Profile.Common.Username,
		TransactionID: event.Object.ID,
		Amount:        amount,
		Currency:      event.Object.Amount.Currency,
		PurchasedAt:   purchasedAt,
		Features:      view.Features,
	}
	if user, err := s.repo.GetUser(ctx, userUID); err == nil {
		receipt.Email = user.Email
	}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyReceipt, receipt); err != nil {
		log.Warn("failed to publish purchase receipt", sl.Err(err))
	}

	log.Info("lifetime purchase applied", slog.String("user_uid", userUID))
	return nil
}

// Status возвращает состояние покупки пользователя.
func (s *Service) Status(ctx context.Context, userUID string) (*Status, error) {
	const op = "services.purchase.Status"

	view, err := s.profiles.Get(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Status{
		Type:          view.Profile.Purchase.Type,
		PurchasedAt:   view.Profile.Purchase.PurchasedAt,
		TransactionID: view.Profile.Purchase.TransactionID,
		Premium:       view.Premium,
		Features:      view.Features,
	}, nil
}

// ListPayments возвращает платежи пользователя.
func (s *Service) ListPayments(ctx context.Context, userUID string) ([]models.Payment, error) {
	const op = "services.purchase.ListPayments"

	payments, err := s.repo.ListPayments(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
