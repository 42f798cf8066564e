package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutrition-app/internal/config"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cache, err := InitServer(context.Background(), config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestSetAndGetProfile(t *testing.T) {
	cache, _ := setupTestCache(t)

	weight := 80.5
	expected := models.Profile{
		Common: models.Common{Username: "alice", Email: "alice@example.com", Icon: 2},
		Body: models.Body{
			Gender:  models.GenderFemale,
			Current: models.BodyMeasurements{Age: 30, Height: 170, Activity: 1.375, Weight: &weight},
		},
		Macros:   models.Macros{Kcal: 2000, Proteins: 160, Carbs: 250, Fats: 67},
		Purchase: models.Purchase{Type: models.PurchaseFree, Features: []string{}},
	}
	require.NoError(t, cache.Set("profile:1", expected, time.Minute))

	var actual models.Profile
	found, err := cache.Get("profile:1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out models.Profile
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)

	require.NoError(t, cache.Set("key", "value", time.Minute))
	require.NoError(t, cache.Invalidate("key"))

	var out string
	found, err := cache.Get("key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	cache, mr := setupTestCache(t)

	require.NoError(t, cache.Set("short", 1, time.Second))
	mr.FastForward(2 * time.Second)

	var out int
	found, err := cache.Get("short", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	cache, _ := setupTestCache(t)

	require.NoError(t, cache.Db.Set(context.Background(), "bad", []byte("not-json"), time.Minute).Err())

	var out models.Profile
	found, err := cache.Get("bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupTestCache(t)

	revoked, err := cache.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, cache.Revoke(ctx, "tok", time.Hour))
	revoked, err = cache.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = cache.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked, "revocation expires together with the token")
}

func TestRevoke_ExpiredTokenIsNoop(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupTestCache(t)

	require.NoError(t, cache.Revoke(ctx, "old", -time.Minute))
	revoked, err := cache.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cache, err := InitServer(context.Background(), config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	})
	assert.Nil(t, cache)
	assert.Error(t, err)
}
