// Package scheduler периодически находит заканчивающиеся и истёкшие подписки
// и публикует уведомления о них.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/rabbitmq"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
)

// Интервалы проверок.
const (
	ExpiringInterval = 12 * time.Hour
	ExpiredInterval  = 24 * time.Hour
)

// SubscriptionRepository ищет подписки по дате окончания.
type SubscriptionRepository interface {
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]models.SubscriptionNotice, error)
	FindExpiredSubscriptions(ctx context.Context) ([]models.SubscriptionNotice, error)
}

// Downgrader переводит профиль на бесплатный уровень.
type Downgrader interface {
	CancelSubscription(ctx context.Context, userUID string) (*profile.View, error)
}

// Publisher публикует уведомления.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service планировщик уведомлений о подписках.
type Service struct {
	repo       SubscriptionRepository
	downgrader Downgrader
	publisher  Publisher
	log        *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo SubscriptionRepository, downgrader Downgrader, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		downgrader: downgrader,
		publisher:  publisher,
		log:        log,
	}
}

// Run запускает обе периодические проверки и блокируется до отмены ctx.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.every(ctx, ExpiringInterval, s.NotifyExpiringTomorrow)
	}()
	go func() {
		defer wg.Done()
		s.every(ctx, ExpiredInterval, s.ResetExpired)
	}()
	wg.Wait()
}

func (s *Service) every(ctx context.Context, interval time.Duration, job func(ctx context.Context) int) {
	job(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}

// NotifyExpiringTomorrow публикует уведомления о подписках, заканчивающихся завтра.
// Возвращает число опубликованных сообщений.
func (s *Service) NotifyExpiringTomorrow(ctx context.Context) int {
	s.log.Info("looking for subscriptions expiring tomorrow")
	notices, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return 0
	}
	if len(notices) == 0 {
		s.log.Info("no expiring subscriptions found")
		return 0
	}
	s.log.Info("found expiring subscriptions", slog.Int("count", len(notices)))

	published := 0
	for _, n := range notices {
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyExpiring, n); err != nil {
			s.log.Error("failed to publish message", slog.String("user_uid", n.UserUID), sl.Err(err))
			continue
		}
		published++
	}
	return published
}

// ResetExpired переводит истёкшие подписки на бесплатный уровень и публикует уведомления.
// Возвращает число опубликованных сообщений.
func (s *Service) ResetExpired(ctx context.Context) int {
	s.log.Info("looking for expired subscriptions")
	notices, err := s.repo.FindExpiredSubscriptions(ctx)
	if err != nil {
		s.log.Error("failed to find expired subscriptions", sl.Err(err))
		return 0
	}
	if len(notices) == 0 {
		s.log.Info("no expired subscriptions found")
		return 0
	}
	s.log.Info("found expired subscriptions", slog.Int("count", len(notices)))

	published := 0
	for _, n := range notices {
		if _, err := s.downgrader.CancelSubscription(ctx, n.UserUID); err != nil {
			s.log.Error("failed to reset subscription", slog.String("user_uid", n.UserUID), sl.Err(err))
			continue
		}
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyExpired, n); err != nil {
			s.log.Error("failed to publish message", slog.String("user_uid", n.UserUID), sl.Err(err))
			continue
		}
		published++
	}
	return published
}
