package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/store"
)

func TestStorage_Integration(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	f := &testDataFactory{storage: storage}

	require.NoError(t, CheckDatabaseReady(storage))

	t.Run("RegisterUser and lookups", func(t *testing.T) {
		uid := f.createUser(t, "alice@example.com")
		_, err := uuid.Parse(uid)
		require.NoError(t, err)

		u, err := storage.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, uid, u.UUID)
		assert.Equal(t, "hash", u.PasswordHash)
		assert.Equal(t, models.RoleUser, u.Role)

		byID, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", byID.Email)
	})

	t.Run("RegisterUser duplicate email", func(t *testing.T) {
		f.createUser(t, "dup@example.com")
		_, err := storage.RegisterUser(ctx, models.User{Email: "dup@example.com", PasswordHash: "x", Role: models.RoleUser}, store.DefaultProfile())
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("GetUserByEmail not found", func(t *testing.T) {
		_, err := storage.GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("profile round trip", func(t *testing.T) {
		uid := f.createUser(t, "bob@example.com")

		p, err := storage.GetProfile(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", p.Common.Email)
		assert.Equal(t, store.DefaultProfile().Body, p.Body)
		assert.Equal(t, models.TierFree, p.Subscription.Tier)
		assert.Empty(t, p.Purchase.Features)

		start := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
		end := start.Add(store.SubscriptionPeriod)
		trial := false
		p.Common.Username = "bobby"
		p.Common.Icon = 3
		p.Macros = models.Macros{Kcal: 2000, Proteins: 150, Carbs: 200, Fats: 60}
		p.Subscription = models.Subscription{Tier: models.TierActive, StartDate: &start, EndDate: &end, FreeTrial: &trial}
		p.Purchase = store.LifetimePurchase("tx-1", start)
		require.NoError(t, storage.UpsertProfile(ctx, uid, *p))

		got, err := storage.GetProfile(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "bobby", got.Common.Username)
		assert.Equal(t, 3, got.Common.Icon)
		assert.Equal(t, p.Macros, got.Macros)
		assert.Equal(t, models.TierActive, got.Subscription.Tier)
		require.NotNil(t, got.Subscription.EndDate)
		assert.True(t, end.Equal(*got.Subscription.EndDate))
		require.NotNil(t, got.Subscription.FreeTrial)
		assert.False(t, *got.Subscription.FreeTrial)
		assert.Equal(t, models.PurchaseLifetime, got.Purchase.Type)
		assert.Equal(t, "tx-1", got.Purchase.TransactionID)
		assert.Equal(t, store.PremiumFeatures, got.Purchase.Features)
	})

	t.Run("UpsertProfile unknown user", func(t *testing.T) {
		err := storage.UpsertProfile(ctx, uuid.NewString(), store.DefaultProfile())
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("payments are idempotent", func(t *testing.T) {
		uid := f.createUser(t, "carol@example.com")
		p := models.Payment{
			UserUID:       uid,
			TransactionID: "tx-carol",
			Product:       models.ProductLifetime,
			Amount:        2999,
			Currency:      "USD",
			Status:        models.PaymentSucceeded,
		}

		id, created, err := storage.SavePayment(ctx, p)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotZero(t, id)

		_, created, err = storage.SavePayment(ctx, p)
		require.NoError(t, err)
		assert.False(t, created)

		list, err := storage.ListPayments(ctx, uid)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(2999), list[0].Amount)
		assert.Equal(t, "tx-carol", list[0].TransactionID)
	})

	t.Run("subscription windows", func(t *testing.T) {
		tomorrow := f.createUser(t, "tomorrow@example.com")
		expired := f.createUser(t, "expired@example.com")
		now := time.Now().UTC()
		f.setSubscriptionEnd(t, tomorrow, time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location()).AddDate(0, 0, 1))
		f.setSubscriptionEnd(t, expired, now.Add(-time.Hour))

		expiring, err := storage.FindSubscriptionsExpiringTomorrow(ctx)
		require.NoError(t, err)
		assert.Contains(t, noticeUIDs(expiring), tomorrow)
		assert.NotContains(t, noticeUIDs(expiring), expired)

		gone, err := storage.FindExpiredSubscriptions(ctx)
		require.NoError(t, err)
		assert.Contains(t, noticeUIDs(gone), expired)
		assert.NotContains(t, noticeUIDs(gone), tomorrow)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := storage.GetProfile(cctx, uuid.NewString())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func noticeUIDs(notices []models.SubscriptionNotice) []string {
	out := make([]string, 0, len(notices))
	for _, n := range notices {
		out = append(out, n.UserUID)
	}
	return out
}
