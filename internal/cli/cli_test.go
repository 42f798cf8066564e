package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutrition-app/internal/apiclient"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/store"
)

type APIMock struct {
	mock.Mock
}

func (m *APIMock) Health(ctx context.Context) (*apiclient.Health, error) {
	args := m.Called(ctx)
	h, _ := args.Get(0).(*apiclient.Health)
	return h, args.Error(1)
}

func (m *APIMock) Register(ctx context.Context, email, username, password string) (string, error) {
	args := m.Called(ctx, email, username, password)
	return args.String(0), args.Error(1)
}

func (m *APIMock) Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*apiclient.LoginResult)
	return res, args.Error(1)
}

func (m *APIMock) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *APIMock) GetProfile(ctx context.Context, token string) (*apiclient.ProfileView, error) {
	args := m.Called(ctx, token)
	v, _ := args.Get(0).(*apiclient.ProfileView)
	return v, args.Error(1)
}

func (m *APIMock) PushProfile(ctx context.Context, token string, profile models.Profile) error {
	return m.Called(ctx, token, profile).Error(0)
}

func (m *APIMock) CreatePurchase(ctx context.Context, token, paymentToken string) (*apiclient.Payment, error) {
	args := m.Called(ctx, token, paymentToken)
	p, _ := args.Get(0).(*apiclient.Payment)
	return p, args.Error(1)
}

func (m *APIMock) PurchaseStatus(ctx context.Context, token string) (*apiclient.PurchaseStatus, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*apiclient.PurchaseStatus)
	return s, args.Error(1)
}

var testSession = models.Session{UserUID: "uid-1", Email: "ann@example.com", Token: "token-1"}

func newTestApp(api *APIMock) *App {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &App{
		Store: store.NewDefault(store.WithSyncer(api), store.WithLogger(log)),
		API:   api,
		Log:   log,
	}
}

// signIn устанавливает сессию без обращения к API.
func signIn(t *testing.T, app *App, api *APIMock) {
	t.Helper()
	api.On("PushProfile", mock.Anything, testSession.Token, mock.Anything).Return(nil).Maybe()
	app.Store.Login(context.Background(), testSession, &models.Profile{})
	app.Store.Replace(context.Background(), store.DefaultProfile())
}

func run(app *App, args ...string) (string, error) {
	cmd := NewRootCommand(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		client, server string
		want           bool
	}{
		{"v1.0.0", "v1.4.2", true},
		{"v1.0.0", "v2.0.0", false},
		{"v1.0.0", "dev", false},
		{"1.0.0", "v1.0.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.client+"_"+tt.server, func(t *testing.T) {
			assert.Equal(t, tt.want, Compatible(tt.client, tt.server))
		})
	}
}

func TestOnboarding(t *testing.T) {
	t.Run("backend online and body saved", func(t *testing.T) {
		api := &APIMock{}
		api.On("Health", mock.Anything).Return(&apiclient.Health{Status: "ok", Version: "v1.2.0"}, nil)
		app := newTestApp(api)

		out, err := run(app, "onboarding", "--age", "30", "--weight", "80")
		require.NoError(t, err)

		assert.Contains(t, out, "Backend: online (v1.2.0)")
		assert.Contains(t, out, "User: not signed in")
		assert.Contains(t, out, "Body measurements saved.")
		p := app.Store.Snapshot()
		assert.Equal(t, 30, p.Body.Current.Age)
		assert.Equal(t, 80.0, *p.Body.Current.Weight)
	})

	t.Run("backend offline", func(t *testing.T) {
		api := &APIMock{}
		api.On("Health", mock.Anything).Return(nil, errors.New("connection refused"))
		app := newTestApp(api)

		out, err := run(app, "onboarding")
		require.NoError(t, err)
		assert.Contains(t, out, "Backend: offline")
	})

	t.Run("incompatible server", func(t *testing.T) {
		api := &APIMock{}
		api.On("Health", mock.Anything).Return(&apiclient.Health{Status: "ok", Version: "v2.0.0"}, nil)

		out, err := run(newTestApp(api), "onboarding")
		require.NoError(t, err)
		assert.Contains(t, out, "may be incompatible")
	})
}

func TestRegister_PushesLocalProfile(t *testing.T) {
	api := &APIMock{}
	app := newTestApp(api)
	ctx := context.Background()

	age := 35
	require.NoError(t, app.Store.UpdateBodyCurrent(ctx, models.BodyCurrentPatch{Age: &age}))

	api.On("Register", mock.Anything, "ann@example.com", "ann", "secret1").Return("uid-1", nil)
	api.On("Login", mock.Anything, "ann@example.com", "secret1").
		Return(&apiclient.LoginResult{Token: "token-1", UserUID: "uid-1", Role: models.RoleUser}, nil)
	api.On("PushProfile", mock.Anything, "token-1", mock.MatchedBy(func(p models.Profile) bool {
		return p.Common.Username == "ann" && p.Body.Current.Age == 35
	})).Return(nil).Once()

	out, err := run(app, "register", "--email", "ann@example.com", "--username", "ann", "--password", "secret1")
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome, ann!")
	assert.True(t, app.Store.IsAuthenticated())
	assert.Equal(t, "secret1", app.Store.Snapshot().Common.Password)
	api.AssertExpectations(t)
}

func TestRegister(t *testing.T) {
	t.Run("account exists", func(t *testing.T) {
		api := &APIMock{}
		api.On("Register", mock.Anything, "ann@example.com", "ann", "secret1").
			Return("", &apiclient.APIError{StatusCode: 409, Message: "user already exists"})

		_, err := run(newTestApp(api), "register", "--email", "ann@example.com", "--username", "ann", "--password", "secret1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("short password", func(t *testing.T) {
		api := &APIMock{}
		_, err := run(newTestApp(api), "register", "--email", "ann@example.com", "--username", "ann", "--password", "123")
		require.Error(t, err)
		api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	t.Run("remote profile wins", func(t *testing.T) {
		api := &APIMock{}
		app := newTestApp(api)

		remote := store.DefaultProfile()
		remote.Common.Username = "remote-ann"
		remote.Macros.Kcal = 2500

		api.On("Login", mock.Anything, "ann@example.com", "secret1").
			Return(&apiclient.LoginResult{Token: "token-1", UserUID: "uid-1"}, nil)
		api.On("GetProfile", mock.Anything, "token-1").Return(&apiclient.ProfileView{Profile: remote}, nil)

		out, err := run(app, "login", "--email", "ann@example.com", "--password", "secret1")
		require.NoError(t, err)

		assert.Contains(t, out, "Signed in as ann@example.com")
		p := app.Store.Snapshot()
		assert.Equal(t, "remote-ann", p.Common.Username)
		assert.Equal(t, 2500, p.Macros.Kcal)
		api.AssertNotCalled(t, "PushProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no remote profile", func(t *testing.T) {
		api := &APIMock{}
		app := newTestApp(api)

		api.On("Login", mock.Anything, "ann@example.com", "secret1").
			Return(&apiclient.LoginResult{Token: "token-1", UserUID: "uid-1"}, nil)
		api.On("GetProfile", mock.Anything, "token-1").
			Return(nil, &apiclient.APIError{StatusCode: 404, Message: "profile not found"})
		api.On("PushProfile", mock.Anything, "token-1", mock.Anything).Return(nil).Once()

		_, err := run(app, "login", "--email", "ann@example.com", "--password", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", app.Store.Snapshot().Common.Email)
		api.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		api := &APIMock{}
		app := newTestApp(api)
		api.On("Login", mock.Anything, "ann@example.com", "wrong-pass").
			Return(nil, &apiclient.APIError{StatusCode: 401, Message: "invalid credentials"})

		_, err := run(app, "login", "--email", "ann@example.com", "--password", "wrong-pass")
		require.EqualError(t, err, "invalid email or password")
		assert.False(t, app.Store.IsAuthenticated())
	})
}

func TestLogout_ResetsState(t *testing.T) {
	api := &APIMock{}
	app := newTestApp(api)
	signIn(t, app, api)
	app.Store.SwitchToPaid(context.Background())

	api.On("Logout", mock.Anything, testSession.Token).Return(errors.New("timeout"))

	out, err := run(app, "logout")
	require.NoError(t, err)

	assert.Contains(t, out, "warning: could not revoke session")
	assert.Contains(t, out, "Signed out")
	assert.False(t, app.Store.IsAuthenticated())
	assert.Equal(t, store.DefaultProfile(), app.Store.Snapshot())
}

func TestHome(t *testing.T) {
	t.Run("signed out", func(t *testing.T) {
		out, err := run(newTestApp(&APIMock{}), "home")
		require.NoError(t, err)
		assert.Contains(t, out, "nutrition login")
		assert.NotContains(t, out, "Health")
	})

	t.Run("free user", func(t *testing.T) {
		api := &APIMock{}
		app := newTestApp(api)
		signIn(t, app, api)

		out, err := run(app, "home")
		require.NoError(t, err)

		assert.Contains(t, out, "Hello, ann!  [FREE]")
		assert.Contains(t, out, "Type:        Free")
		assert.Contains(t, out, "BMI:       22.2")
		assert.Contains(t, out, "Weight:    72 kg")
		assert.Contains(t, out, "Activity:  1.55")
		assert.NotContains(t, out, "more")
	})

	t.Run("lifetime user", func(t *testing.T) {
		api := &APIMock{}
		app := newTestApp(api)
		signIn(t, app, api)
		at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
		app.Store.ApplyLifetimePurchase(context.Background(), "pay_0123456789", at)

		out, err := run(app, "home")
		require.NoError(t, err)

		assert.Contains(t, out, "[PREMIUM]")
		assert.Contains(t, out, "Lifetime access")
		assert.Contains(t, out, "Purchased:   2026-03-14")
		assert.Contains(t, out, "Transaction: pay_0123...")
		assert.Contains(t, out, "and 6 more")
	})
}

func TestBody(t *testing.T) {
	t.Run("updates measurements", func(t *testing.T) {
		app := newTestApp(&APIMock{})

		out, err := run(app, "body", "--height", "170", "--weight", "85", "--gender", "female")
		require.NoError(t, err)

		assert.Contains(t, out, "BMI: 29.4")
		p := app.Store.Snapshot()
		assert.Equal(t, models.GenderFemale, p.Body.Gender)
		assert.Equal(t, 170.0, p.Body.Current.Height)
		assert.Equal(t, store.DefaultAge, p.Body.Current.Age)
	})

	t.Run("activity outside the allowed set", func(t *testing.T) {
		app := newTestApp(&APIMock{})
		_, err := run(app, "body", "--activity", "1.3")
		require.ErrorIs(t, err, store.ErrInvalidActivity)
		assert.Equal(t, store.DefaultActivity, app.Store.Snapshot().Body.Current.Activity)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := run(newTestApp(&APIMock{}), "body", "--age", "5")
		require.Error(t, err)
	})

	t.Run("no flags", func(t *testing.T) {
		_, err := run(newTestApp(&APIMock{}), "body")
		require.Error(t, err)
	})
}

func TestGoal(t *testing.T) {
	app := newTestApp(&APIMock{})

	out, err := run(app, "goal", "--weight", "75.5")
	require.NoError(t, err)

	assert.Contains(t, out, "Goal: 75.5 kg, 8% body fat")
	assert.Equal(t, 75.5, app.Store.Snapshot().Body.Goal.Weight)
}

func TestMacros(t *testing.T) {
	t.Run("calc", func(t *testing.T) {
		app := newTestApp(&APIMock{})

		out, err := run(app, "macros", "calc")
		require.NoError(t, err)

		m := app.Store.Snapshot().Macros
		assert.Positive(t, m.Kcal)
		assert.Contains(t, out, "Calories:")
	})

	t.Run("set requires premium", func(t *testing.T) {
		app := newTestApp(&APIMock{})
		_, err := run(app, "macros", "set", "--kcal", "2000")
		require.ErrorIs(t, err, apiclient.ErrPremiumRequired)
		assert.Zero(t, app.Store.Snapshot().Macros.Kcal)
	})

	t.Run("set with subscription", func(t *testing.T) {
		app := newTestApp(&APIMock{})
		app.Store.SwitchToPaid(context.Background())

		out, err := run(app, "macros", "set", "--kcal", "2000", "--proteins", "150")
		require.NoError(t, err)

		assert.Contains(t, out, "Calories: 2000 kcal")
		m := app.Store.Snapshot().Macros
		assert.Equal(t, 2000, m.Kcal)
		assert.Equal(t, 150, m.Proteins)
	})
}

func TestSubscription(t *testing.T) {
	app := newTestApp(&APIMock{})

	out, err := run(app, "subscription", "activate")
	require.NoError(t, err)
	assert.Contains(t, out, "30 days left")
	assert.True(t, app.Store.IsSubscribed())

	_, err = run(app, "subscription", "cancel")
	require.NoError(t, err)
	assert.False(t, app.Store.IsSubscribed())
	assert.Equal(t, models.TierFree, app.Store.Snapshot().Subscription.Tier)
}

func TestSync_ReportsRemoteFailure(t *testing.T) {
	api := &APIMock{}
	app := newTestApp(api)
	app.Store.Login(context.Background(), testSession, &models.Profile{})
	api.On("PushProfile", mock.Anything, testSession.Token, mock.Anything).Return(errors.New("service unavailable"))

	out, err := run(app, "goal", "--bf", "12")
	require.NoError(t, err)

	assert.Contains(t, out, "warning: profile sync failed")
	assert.Equal(t, 12.0, app.Store.Snapshot().Body.Goal.BF)
}

func TestPurchase(t *testing.T) {
	t.Run("not signed in", func(t *testing.T) {
		_, err := run(newTestApp(&APIMock{}), "purchase", "--token", "tok")
		require.ErrorIs(t, err, ErrNotSignedIn)
	})

	t.Run("created", func(t *testing.T) {
		api := &APIMock{}
		app := newTestApp(api)
		signIn(t, app, api)
		api.On("CreatePurchase", mock.Anything, testSession.Token, "pm_card").
			Return(&apiclient.Payment{ID: "pay_1", Status: models.PaymentPending}, nil)

		out, err := run(app, "purchase", "--token", "pm_card")
		require.NoError(t, err)
		assert.Contains(t, out, "Payment pay_1: pending")
	})

	t.Run("already purchased", func(t *testing.T) {
		api := &APIMock{}
		app := newTestApp(api)
		signIn(t, app, api)
		api.On("CreatePurchase", mock.Anything, testSession.Token, "pm_card").
			Return(nil, &apiclient.APIError{StatusCode: 409, Message: "lifetime access already purchased"})

		_, err := run(app, "purchase", "--token", "pm_card")
		require.EqualError(t, err, "lifetime access is already purchased")
	})

	t.Run("status", func(t *testing.T) {
		api := &APIMock{}
		app := newTestApp(api)
		signIn(t, app, api)
		at := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		api.On("PurchaseStatus", mock.Anything, testSession.Token).
			Return(&apiclient.PurchaseStatus{Type: models.PurchaseLifetime, PurchasedAt: &at, Premium: true}, nil)

		out, err := run(app, "purchase", "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Type: lifetime")
		assert.Contains(t, out, "Purchased: 2026-03-14")
	})
}

func TestSyncPullPush(t *testing.T) {
	api := &APIMock{}
	app := newTestApp(api)
	signIn(t, app, api)

	remote := store.DefaultProfile()
	remote.Common.Username = "from-server"
	api.On("GetProfile", mock.Anything, testSession.Token).Return(&apiclient.ProfileView{Profile: remote}, nil)

	_, err := run(app, "sync", "pull")
	require.NoError(t, err)
	assert.Equal(t, "from-server", app.Store.Snapshot().Common.Username)

	out, err := run(app, "sync", "push")
	require.NoError(t, err)
	assert.Contains(t, out, "Account updated")
	api.AssertCalled(t, "PushProfile", mock.Anything, testSession.Token, mock.MatchedBy(func(p models.Profile) bool {
		return p.Common.Username == "from-server"
	}))
}
