package middlewarectx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type PremiumCheckerMock struct {
	mock.Mock
}

func (m *PremiumCheckerMock) HasPremium(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func TestRequirePremium(t *testing.T) {
	tests := []struct {
		name       string
		uid        string
		premium    bool
		err        error
		wantStatus int
	}{
		{name: "premium user", uid: "uid-1", premium: true, wantStatus: http.StatusOK},
		{name: "free user", uid: "uid-1", wantStatus: http.StatusForbidden},
		{name: "check failed", uid: "uid-1", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
		{name: "no user", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(PremiumCheckerMock)
			if tt.uid != "" {
				checker.On("HasPremium", mock.Anything, tt.uid).Return(tt.premium, tt.err).Once()
			}
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPatch, "/profile/macros", nil)
			if tt.uid != "" {
				req = req.WithContext(context.WithValue(req.Context(), UserUID, tt.uid))
			}
			rec := httptest.NewRecorder()
			RequirePremium(newNoopLogger(), checker)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			checker.AssertExpectations(t)
		})
	}
}
