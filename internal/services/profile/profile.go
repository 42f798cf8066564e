// Package profile содержит серверную логику работы с профилем пользователя:
// чтение через кеш, изменения через store.Store и запись в удалённую таблицу.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nutrition-app/internal/lib/nutrition"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/metrics"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/storage/repository"
	"github.com/magabrotheeeer/nutrition-app/internal/store"
)

// ErrNotFound профиль не найден.
var ErrNotFound = errors.New("profile not found")

const cacheTTL = time.Hour

// Repository определяет методы для работы с профилями в хранилище.
type Repository interface {
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, userUID string, profile models.Profile) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// View профиль вместе с производными значениями для клиента.
type View struct {
	Profile              models.Profile `json:"profile"`
	BMI                  float64        `json:"bmi"`
	Premium              bool           `json:"premium"`
	InTrial              bool           `json:"in_trial"`
	Features             []string       `json:"features"`
	SubscriptionDaysLeft int            `json:"subscription_days_left"`
}

// Service реализует операции над профилем.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// WithClock подменяет источник времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func cacheKey(userUID string) string {
	return "profile:" + userUID
}

// Get возвращает профиль с производными значениями.
func (s *Service) Get(ctx context.Context, userUID string) (*View, error) {
	const op = "services.profile.Get"

	p, err := s.load(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.view(*p), nil
}

// HasPremium сообщает о наличии премиум-доступа.
func (s *Service) HasPremium(ctx context.Context, userUID string) (bool, error) {
	const op = "services.profile.HasPremium"

	p, err := s.load(ctx, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return store.HasPremium(*p), nil
}

// Replace перезаписывает профиль целиком. Последняя запись побеждает.
// Покупка остаётся серверной: её меняет только ApplyLifetimePurchase.
func (s *Service) Replace(ctx context.Context, userUID string, profile models.Profile) (*View, error) {
	return s.mutate(ctx, "services.profile.Replace", userUID, func(st *store.Store) error {
		incoming := profile.Clone()
		incoming.Purchase = st.Snapshot().Purchase
		st.Replace(ctx, incoming)
		return nil
	})
}

// UpdateCommon изменяет общие поля профиля.
func (s *Service) UpdateCommon(ctx context.Context, userUID string, patch models.CommonPatch) (*View, error) {
	return s.mutate(ctx, "services.profile.UpdateCommon", userUID, func(st *store.Store) error {
		st.UpdateCommon(ctx, patch)
		return nil
	})
}

// UpdateBodyCurrent изменяет текущие параметры тела.
func (s *Service) UpdateBodyCurrent(ctx context.Context, userUID string, patch models.BodyCurrentPatch) (*View, error) {
	return s.mutate(ctx, "services.profile.UpdateBodyCurrent", userUID, func(st *store.Store) error {
		return st.UpdateBodyCurrent(ctx, patch)
	})
}

// UpdateBodyGoal изменяет целевые параметры тела.
func (s *Service) UpdateBodyGoal(ctx context.Context, userUID string, patch models.BodyGoalPatch) (*View, error) {
	return s.mutate(ctx, "services.profile.UpdateBodyGoal", userUID, func(st *store.Store) error {
		st.UpdateBodyGoal(ctx, patch)
		return nil
	})
}

// UpdateMacros вручную задаёт макросы.
func (s *Service) UpdateMacros(ctx context.Context, userUID string, patch models.MacrosPatch) (*View, error) {
	return s.mutate(ctx, "services.profile.UpdateMacros", userUID, func(st *store.Store) error {
		st.UpdateMacros(ctx, patch)
		return nil
	})
}

// CalculateMacros пересчитывает макросы по параметрам тела.
func (s *Service) CalculateMacros(ctx context.Context, userUID string) (*View, error) {
	return s.mutate(ctx, "services.profile.CalculateMacros", userUID, func(st *store.Store) error {
		st.CalculateMacros(ctx)
		metrics.RecordMacroCalculation()
		return nil
	})
}

// ActivateSubscription включает платную подписку на 30 дней.
func (s *Service) ActivateSubscription(ctx context.Context, userUID string) (*View, error) {
	return s.mutate(ctx, "services.profile.ActivateSubscription", userUID, func(st *store.Store) error {
		st.SwitchToPaid(ctx)
		return nil
	})
}

// CancelSubscription возвращает подписку на бесплатный уровень.
func (s *Service) CancelSubscription(ctx context.Context, userUID string) (*View, error) {
	return s.mutate(ctx, "services.profile.CancelSubscription", userUID, func(st *store.Store) error {
		st.ResetToFree(ctx)
		return nil
	})
}

// ApplyLifetimePurchase фиксирует пожизненную покупку в профиле.
func (s *Service) ApplyLifetimePurchase(ctx context.Context, userUID, transactionID string, at time.Time) (*View, error) {
	return s.mutate(ctx, "services.profile.ApplyLifetimePurchase", userUID, func(st *store.Store) error {
		st.ApplyLifetimePurchase(ctx, transactionID, at)
		return nil
	})
}

func (s *Service) mutate(ctx context.Context, op, userUID string, action func(st *store.Store) error) (*View, error) {
	current, err := s.load(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st := store.New(*current, store.WithClock(s.now), store.WithLogger(s.log))
	if err := action(st); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	next := st.Snapshot()

	err = s.repo.UpsertProfile(ctx, userUID, next)
	metrics.RecordProfileSync(err)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := cacheKey(userUID)
	if err := s.cache.Set(key, next, cacheTTL); err != nil {
		s.log.Warn("failed to update cache", slog.String("key", key), sl.Err(err))
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
		}
	}
	return s.view(next), nil
}

func (s *Service) load(ctx context.Context, userUID string) (*models.Profile, error) {
	key := cacheKey(userUID)

	var cached models.Profile
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	p, err := s.repo.GetProfile(ctx, userUID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, p, cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return p, nil
}

func (s *Service) view(p models.Profile) *View {
	now := s.now()
	return &View{
		Profile:              p,
		BMI:                  nutrition.BMI(p.Body.Current.Weight, p.Body.Current.Height),
		Premium:              store.HasPremium(p),
		InTrial:              p.Subscription.FreeTrial != nil && *p.Subscription.FreeTrial,
		Features:             store.Features(p),
		SubscriptionDaysLeft: nutrition.DaysUntil(p.Subscription.EndDate, now),
	}
}
