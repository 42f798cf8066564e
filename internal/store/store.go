// Package store содержит контейнер состояния пользователя: профиль, данные
// о теле, макронутриенты, подписку и покупку.
//
// Каждое действие изменяет состояние в памяти, сохраняет снимок в локальное
// хранилище и зеркалирует его в удалённую таблицу. Ошибки удалённой
// синхронизации не прерывают действие: они логируются и сохраняются как
// сообщение для пользователя (LastError).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/nutrition-app/internal/lib/nutrition"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

// Ключи локального хранилища.
const (
	SnapshotKey = "user-storage"
	SessionKey  = "session"
)

// SubscriptionPeriod длительность платной подписки.
const SubscriptionPeriod = 30 * 24 * time.Hour

// ErrInvalidActivity возвращается при недопустимом коэффициенте активности.
var ErrInvalidActivity = errors.New("activity factor must be one of 1.2, 1.375, 1.55, 1.725, 1.9")

// Persister локальное key-value хранилище снимка.
type Persister interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Syncer зеркалирует снимок в удалённую таблицу. Последняя запись побеждает.
type Syncer interface {
	PushProfile(ctx context.Context, token string, profile models.Profile) error
}

// Store потокобезопасный контейнер состояния.
type Store struct {
	opMu sync.Mutex // упорядочивает действия вместе с сохранением и синхронизацией

	mu        sync.RWMutex
	profile   models.Profile
	session   *models.Session
	lastError string

	persister Persister
	syncer    Syncer
	log       *slog.Logger
	now       func() time.Time
}

// Option настраивает Store.
type Option func(*Store)

// WithPersister подключает локальное хранилище.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithSyncer подключает удалённую синхронизацию.
func WithSyncer(sy Syncer) Option {
	return func(s *Store) { s.syncer = sy }
}

// WithLogger задаёт логгер.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock задаёт источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New создаёт Store с начальным профилем.
func New(profile models.Profile, opts ...Option) *Store {
	s := &Store{
		profile: profile.Clone(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDefault создаёт Store со значениями по умолчанию.
func NewDefault(opts ...Option) *Store {
	return New(DefaultProfile(), opts...)
}

// Restore загружает снимок и сессию из локального хранилища.
// Если снимка нет, остаются значения по умолчанию.
func (s *Store) Restore(ctx context.Context) error {
	const op = "store.Restore"
	if s.persister == nil {
		return nil
	}

	raw, ok, err := s.persister.Get(ctx, SnapshotKey)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	profile := DefaultProfile()
	if ok {
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	var session *models.Session
	rawSession, ok, err := s.persister.Get(ctx, SessionKey)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		session = &models.Session{}
		if err := json.Unmarshal([]byte(rawSession), session); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	s.mu.Lock()
	s.profile = profile
	s.session = session
	s.mu.Unlock()
	return nil
}

// Snapshot возвращает копию текущего профиля.
func (s *Store) Snapshot() models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Clone()
}

// Session возвращает текущую сессию или nil.
func (s *Store) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	out := *s.session
	return &out
}

// LastError возвращает последнее сообщение об ошибке синхронизации.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// IsAuthenticated сообщает, есть ли активная сессия.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Valid()
}

// IsInTrial сообщает, что подписка находится в пробном периоде.
func (s *Store) IsInTrial() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Subscription.FreeTrial != nil && *s.profile.Subscription.FreeTrial
}

// IsSubscribed сообщает, что подписка активна.
func (s *Store) IsSubscribed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Subscription.Tier == models.TierActive
}

// HasPremium сообщает о доступе к премиум-возможностям:
// пожизненная покупка или активная подписка.
func (s *Store) HasPremium() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return HasPremium(s.profile)
}

// Features возвращает список доступных пользователю возможностей.
func (s *Store) Features() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Features(s.profile)
}

// BMI индекс массы тела по текущим замерам.
func (s *Store) BMI() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nutrition.BMI(s.profile.Body.Current.Weight, s.profile.Body.Current.Height)
}

// DaysUntilSubscriptionEnds количество дней до окончания подписки, 0 если дата не задана.
func (s *Store) DaysUntilSubscriptionEnds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nutrition.DaysUntil(s.profile.Subscription.EndDate, s.now())
}

// UpdateCommon частично обновляет общие данные.
func (s *Store) UpdateCommon(ctx context.Context, patch models.CommonPatch) {
	s.apply(ctx, func(p *models.Profile) {
		if patch.Username != nil {
			p.Common.Username = *patch.Username
		}
		if patch.Email != nil {
			p.Common.Email = *patch.Email
		}
		if patch.Password != nil {
			p.Common.Password = *patch.Password
		}
		if patch.Icon != nil {
			p.Common.Icon = *patch.Icon
		}
	})
}

// UpdateSubscription частично обновляет подписку.
func (s *Store) UpdateSubscription(ctx context.Context, patch models.SubscriptionPatch) {
	s.apply(ctx, func(p *models.Profile) {
		if patch.Tier != nil {
			p.Subscription.Tier = *patch.Tier
		}
		if patch.StartDate != nil {
			v := *patch.StartDate
			p.Subscription.StartDate = &v
		}
		if patch.EndDate != nil {
			v := *patch.EndDate
			p.Subscription.EndDate = &v
		}
		if patch.FreeTrial != nil {
			v := *patch.FreeTrial
			p.Subscription.FreeTrial = &v
		}
	})
}

// UpdateBodyCurrent частично обновляет текущие замеры и пол.
func (s *Store) UpdateBodyCurrent(ctx context.Context, patch models.BodyCurrentPatch) error {
	if patch.Activity != nil && !nutrition.ValidActivity(*patch.Activity) {
		return ErrInvalidActivity
	}
	s.apply(ctx, func(p *models.Profile) {
		if patch.Gender != nil {
			p.Body.Gender = *patch.Gender
		}
		if patch.Age != nil {
			p.Body.Current.Age = *patch.Age
		}
		if patch.Height != nil {
			p.Body.Current.Height = *patch.Height
		}
		if patch.Activity != nil {
			p.Body.Current.Activity = *patch.Activity
		}
		if patch.Weight != nil {
			v := *patch.Weight
			p.Body.Current.Weight = &v
		}
		if patch.BF != nil {
			v := *patch.BF
			p.Body.Current.BF = &v
		}
	})
	return nil
}

// UpdateBodyGoal частично обновляет цель.
func (s *Store) UpdateBodyGoal(ctx context.Context, patch models.BodyGoalPatch) {
	s.apply(ctx, func(p *models.Profile) {
		if patch.Weight != nil {
			p.Body.Goal.Weight = *patch.Weight
		}
		if patch.BF != nil {
			p.Body.Goal.BF = *patch.BF
		}
	})
}

// UpdateMacros частично обновляет макронутриенты.
func (s *Store) UpdateMacros(ctx context.Context, patch models.MacrosPatch) {
	s.apply(ctx, func(p *models.Profile) {
		if patch.Kcal != nil {
			p.Macros.Kcal = *patch.Kcal
		}
		if patch.Proteins != nil {
			p.Macros.Proteins = *patch.Proteins
		}
		if patch.Carbs != nil {
			p.Macros.Carbs = *patch.Carbs
		}
		if patch.Fats != nil {
			p.Macros.Fats = *patch.Fats
		}
	})
}

// CalculateMacros пересчитывает макронутриенты по данным о теле и возвращает результат.
func (s *Store) CalculateMacros(ctx context.Context) models.Macros {
	var out models.Macros
	s.apply(ctx, func(p *models.Profile) {
		out = nutrition.CalculateMacros(p.Body)
		p.Macros = out
	})
	return out
}

// SwitchToPaid активирует подписку на 30 дней с текущего момента.
func (s *Store) SwitchToPaid(ctx context.Context) {
	s.apply(ctx, func(p *models.Profile) {
		start := s.now()
		end := start.Add(SubscriptionPeriod)
		trial := false
		p.Subscription = models.Subscription{
			Tier:      models.TierActive,
			StartDate: &start,
			EndDate:   &end,
			FreeTrial: &trial,
		}
	})
}

// ResetToFree возвращает подписку на бесплатный уровень.
func (s *Store) ResetToFree(ctx context.Context) {
	s.apply(ctx, func(p *models.Profile) {
		p.Subscription = models.Subscription{Tier: models.TierFree}
	})
}

// ApplyLifetimePurchase фиксирует пожизненную покупку.
func (s *Store) ApplyLifetimePurchase(ctx context.Context, transactionID string, at time.Time) {
	s.apply(ctx, func(p *models.Profile) {
		p.Purchase = LifetimePurchase(transactionID, at)
	})
}

// Replace целиком заменяет профиль. Пароль в памяти сохраняется.
func (s *Store) Replace(ctx context.Context, profile models.Profile) {
	s.apply(ctx, func(p *models.Profile) {
		password := p.Common.Password
		*p = profile.Clone()
		p.Common.Password = password
	})
}

// Login устанавливает сессию и объединяет состояние с профилем из удалённой
// таблицы. Если удалённого профиля нет, локальный снимок зеркалируется в неё.
func (s *Store) Login(ctx context.Context, session models.Session, remote *models.Profile) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	sess := session
	s.session = &sess
	if remote != nil {
		password := s.profile.Common.Password
		s.profile = remote.Clone()
		s.profile.Common.Password = password
	}
	if s.profile.Common.Email == "" {
		s.profile.Common.Email = session.Email
	}
	s.lastError = ""
	snapshot := s.profile.Clone()
	s.mu.Unlock()

	s.persistSession(ctx, &sess)
	s.persist(ctx, snapshot)
	if remote == nil {
		s.push(ctx, &sess, snapshot)
	}
}

// SignOut сбрасывает все поля к значениям по умолчанию и удаляет сессию.
func (s *Store) SignOut(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.profile = DefaultProfile()
	s.session = nil
	s.lastError = ""
	snapshot := s.profile.Clone()
	s.mu.Unlock()

	s.persistSession(ctx, nil)
	s.persist(ctx, snapshot)
}

// apply выполняет изменение, сохраняет снимок локально и зеркалирует его
// в удалённую таблицу. LastError отражает только ошибки этого действия.
func (s *Store) apply(ctx context.Context, mutate func(p *models.Profile)) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.lastError = ""
	next := s.profile.Clone()
	mutate(&next)
	s.profile = next
	snapshot := next.Clone()
	session := s.session
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.push(ctx, session, snapshot)
}

func (s *Store) persist(ctx context.Context, snapshot models.Profile) {
	if s.persister == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error("failed to marshal snapshot", sl.Err(err))
		return
	}
	if err := s.persister.Set(ctx, SnapshotKey, string(data)); err != nil {
		s.log.Error("failed to persist snapshot", sl.Err(err))
		s.setError(fmt.Sprintf("could not save profile locally: %v", err))
	}
}

func (s *Store) persistSession(ctx context.Context, session *models.Session) {
	if s.persister == nil {
		return
	}
	if session == nil {
		if err := s.persister.Delete(ctx, SessionKey); err != nil {
			s.log.Error("failed to delete session", sl.Err(err))
		}
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		s.log.Error("failed to marshal session", sl.Err(err))
		return
	}
	if err := s.persister.Set(ctx, SessionKey, string(data)); err != nil {
		s.log.Error("failed to persist session", sl.Err(err))
	}
}

func (s *Store) push(ctx context.Context, session *models.Session, snapshot models.Profile) {
	if s.syncer == nil || !session.Valid() {
		return
	}
	if err := s.syncer.PushProfile(ctx, session.Token, snapshot); err != nil {
		s.log.Warn("remote profile sync failed", sl.Err(err))
		s.setError(fmt.Sprintf("profile sync failed: %v", err))
	}
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

// HasPremium сообщает о наличии премиум-доступа у профиля.
func HasPremium(p models.Profile) bool {
	return p.Purchase.Type == models.PurchaseLifetime || p.Subscription.Tier == models.TierActive
}

// Features возвращает доступные профилю возможности.
func Features(p models.Profile) []string {
	if !HasPremium(p) {
		return append([]string{}, FreeFeatures...)
	}
	if len(p.Purchase.Features) > 0 {
		return append([]string{}, p.Purchase.Features...)
	}
	return append([]string{}, PremiumFeatures...)
}

// LifetimePurchase формирует запись о пожизненной покупке.
func LifetimePurchase(transactionID string, at time.Time) models.Purchase {
	t := at
	return models.Purchase{
		Type:          models.PurchaseLifetime,
		PurchasedAt:   &t,
		TransactionID: transactionID,
		Features:      append([]string{}, PremiumFeatures...),
	}
}
