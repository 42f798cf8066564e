package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nutrition-app/internal/grpc/authpb"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/paymentprovider"
	"github.com/magabrotheeeer/nutrition-app/internal/services/auth"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
	"github.com/magabrotheeeer/nutrition-app/internal/services/purchase"
	"github.com/magabrotheeeer/nutrition-app/internal/store"
)

type AuthMock struct {
	mock.Mock
}

func (m *AuthMock) Register(ctx context.Context, email, username, password string) (string, error) {
	args := m.Called(ctx, email, username, password)
	return args.String(0), args.Error(1)
}

func (m *AuthMock) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*auth.LoginResult)
	return res, args.Error(1)
}

func (m *AuthMock) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *AuthMock) ValidateToken(ctx context.Context, token string) (*authpb.ValidateTokenResponse, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*authpb.ValidateTokenResponse)
	return res, args.Error(1)
}

// profilesStub отвечает одним и тем же профилем на любое действие.
type profilesStub struct {
	premium bool
	calls   []string
}

func (p *profilesStub) view() (*profile.View, error) {
	return &profile.View{Profile: store.DefaultProfile(), Premium: p.premium}, nil
}

func (p *profilesStub) Get(_ context.Context, _ string) (*profile.View, error) {
	p.calls = append(p.calls, "Get")
	return p.view()
}

func (p *profilesStub) HasPremium(_ context.Context, _ string) (bool, error) {
	return p.premium, nil
}

func (p *profilesStub) Replace(_ context.Context, _ string, _ models.Profile) (*profile.View, error) {
	p.calls = append(p.calls, "Replace")
	return p.view()
}

func (p *profilesStub) UpdateCommon(_ context.Context, _ string, _ models.CommonPatch) (*profile.View, error) {
	p.calls = append(p.calls, "UpdateCommon")
	return p.view()
}

func (p *profilesStub) UpdateBodyCurrent(_ context.Context, _ string, _ models.BodyCurrentPatch) (*profile.View, error) {
	p.calls = append(p.calls, "UpdateBodyCurrent")
	return p.view()
}

func (p *profilesStub) UpdateBodyGoal(_ context.Context, _ string, _ models.BodyGoalPatch) (*profile.View, error) {
	p.calls = append(p.calls, "UpdateBodyGoal")
	return p.view()
}

func (p *profilesStub) UpdateMacros(_ context.Context, _ string, _ models.MacrosPatch) (*profile.View, error) {
	p.calls = append(p.calls, "UpdateMacros")
	return p.view()
}

func (p *profilesStub) CalculateMacros(_ context.Context, _ string) (*profile.View, error) {
	p.calls = append(p.calls, "CalculateMacros")
	return p.view()
}

func (p *profilesStub) ActivateSubscription(_ context.Context, _ string) (*profile.View, error) {
	p.calls = append(p.calls, "ActivateSubscription")
	return p.view()
}

func (p *profilesStub) CancelSubscription(_ context.Context, _ string) (*profile.View, error) {
	p.calls = append(p.calls, "CancelSubscription")
	return p.view()
}

type purchasesStub struct {
	webhooks int
}

func (p *purchasesStub) CreateLifetimePayment(_ context.Context, _, _ string) (*paymentprovider.Payment, error) {
	return &paymentprovider.Payment{ID: "pay-1", Status: "pending"}, nil
}

func (p *purchasesStub) Status(_ context.Context, _ string) (*purchase.Status, error) {
	return &purchase.Status{Type: models.PurchaseFree}, nil
}

func (p *purchasesStub) ListPayments(_ context.Context, _ string) ([]models.Payment, error) {
	return nil, nil
}

func (p *purchasesStub) ProcessWebhookEvent(_ context.Context, _ []byte) error {
	p.webhooks++
	return nil
}

const webhookSecret = "whsec"

func newRouter(t *testing.T, premium bool) (http.Handler, *AuthMock, *profilesStub, *purchasesStub) {
	t.Helper()
	authMock := new(AuthMock)
	authMock.On("ValidateToken", mock.Anything, "good").Return(&authpb.ValidateTokenResponse{
		Username: "anna", Role: "user", UserUID: "uid-1", Valid: true,
	}, nil).Maybe()
	profiles := &profilesStub{premium: premium}
	purchases := &purchasesStub{}

	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), RouteConfig{
		Version:       "v1.4.0",
		RateLimit:     100,
		RateBurst:     100,
		WebhookSecret: webhookSecret,
	}, Services{Auth: authMock, Profiles: profiles, Purchases: purchases})
	return r, authMock, profiles, purchases
}

func do(h http.Handler, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Public(t *testing.T) {
	h, _, _, purchases := newRouter(t, false)

	rec := do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "v1.4.0")

	rec = do(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := []byte(`{"event":"payment.succeeded"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(body))
	req.Header.Set(paymentprovider.SignatureHeader, paymentprovider.Sign(webhookSecret, body))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, purchases.webhooks)
}

func TestRoutes_RequireToken(t *testing.T) {
	h, _, profiles, _ := newRouter(t, false)

	for _, path := range []string{"/api/v1/profile", "/api/v1/purchase", "/api/v1/payments"} {
		rec := do(h, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	assert.Empty(t, profiles.calls)
}

func TestRoutes_ProfileActions(t *testing.T) {
	h, _, profiles, _ := newRouter(t, false)

	tests := []struct {
		method string
		path   string
		body   string
		call   string
	}{
		{http.MethodGet, "/api/v1/profile", "", "Get"},
		{http.MethodPut, "/api/v1/profile", `{"common":{"username":"anna"}}`, "Replace"},
		{http.MethodPatch, "/api/v1/profile/common", `{"icon":3}`, "UpdateCommon"},
		{http.MethodPatch, "/api/v1/profile/body", `{"age":30}`, "UpdateBodyCurrent"},
		{http.MethodPatch, "/api/v1/profile/goal", `{"weight":65}`, "UpdateBodyGoal"},
		{http.MethodPost, "/api/v1/profile/macros/calculate", "", "CalculateMacros"},
		{http.MethodPost, "/api/v1/subscription/activate", "", "ActivateSubscription"},
		{http.MethodPost, "/api/v1/subscription/cancel", "", "CancelSubscription"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			profiles.calls = nil
			rec := do(h, tt.method, tt.path, "good", []byte(tt.body))
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, []string{tt.call}, profiles.calls)
		})
	}
}

func TestRoutes_PremiumGate(t *testing.T) {
	t.Run("free user is rejected", func(t *testing.T) {
		h, _, profiles, _ := newRouter(t, false)
		rec := do(h, http.MethodPatch, "/api/v1/profile/macros", "good", []byte(`{"kcal":1800}`))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, profiles.calls)
	})

	t.Run("premium user passes", func(t *testing.T) {
		h, _, profiles, _ := newRouter(t, true)
		rec := do(h, http.MethodPatch, "/api/v1/profile/macros", "good", []byte(`{"kcal":1800}`))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"UpdateMacros"}, profiles.calls)
	})
}

func TestRoutes_Logout(t *testing.T) {
	h, authMock, _, _ := newRouter(t, false)
	authMock.On("Logout", mock.Anything, "good").Return(nil).Once()

	rec := do(h, http.MethodPost, "/api/v1/logout", "good", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	authMock.AssertCalled(t, "Logout", mock.Anything, "good")
}
