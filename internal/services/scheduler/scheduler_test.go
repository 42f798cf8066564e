package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]models.SubscriptionNotice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubscriptionNotice), args.Error(1)
}

func (m *MockRepository) FindExpiredSubscriptions(ctx context.Context) ([]models.SubscriptionNotice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubscriptionNotice), args.Error(1)
}

type MockDowngrader struct {
	mock.Mock
}

func (m *MockDowngrader) CancelSubscription(ctx context.Context, userUID string) (*profile.View, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.View), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_NotifyExpiringTomorrow(t *testing.T) {
	notice := models.SubscriptionNotice{
		UserUID:  "user123",
		Email:    "test@example.com",
		Username: "testuser",
		EndDate:  time.Now().Add(24 * time.Hour),
	}

	tests := []struct {
		name       string
		setupMocks func(*MockRepository, *MockPublisher)
		want       int
	}{
		{
			name: "success - found expiring subscriptions",
			setupMocks: func(r *MockRepository, p *MockPublisher) {
				r.On("FindSubscriptionsExpiringTomorrow", mock.Anything).Return([]models.SubscriptionNotice{notice}, nil).Once()
				p.On("Publish", mock.Anything, "expiring", notice).Return(nil).Once()
			},
			want: 1,
		},
		{
			name: "success - no expiring subscriptions",
			setupMocks: func(r *MockRepository, _ *MockPublisher) {
				r.On("FindSubscriptionsExpiringTomorrow", mock.Anything).Return([]models.SubscriptionNotice{}, nil).Once()
			},
			want: 0,
		},
		{
			name: "repository error",
			setupMocks: func(r *MockRepository, _ *MockPublisher) {
				r.On("FindSubscriptionsExpiringTomorrow", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
			want: 0,
		},
		{
			name: "publish error",
			setupMocks: func(r *MockRepository, p *MockPublisher) {
				r.On("FindSubscriptionsExpiringTomorrow", mock.Anything).Return([]models.SubscriptionNotice{notice}, nil).Once()
				p.On("Publish", mock.Anything, "expiring", notice).Return(errors.New("broker down")).Once()
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			pub := new(MockPublisher)
			service := NewService(repo, new(MockDowngrader), pub, newNoopLogger())

			tt.setupMocks(repo, pub)

			assert.Equal(t, tt.want, service.NotifyExpiringTomorrow(context.Background()))
			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestService_ResetExpired(t *testing.T) {
	first := models.SubscriptionNotice{UserUID: "u1", Email: "a@example.com"}
	second := models.SubscriptionNotice{UserUID: "u2", Email: "b@example.com"}

	repo := new(MockRepository)
	down := new(MockDowngrader)
	pub := new(MockPublisher)

	repo.On("FindExpiredSubscriptions", mock.Anything).Return([]models.SubscriptionNotice{first, second}, nil).Once()
	down.On("CancelSubscription", mock.Anything, "u1").Return(&profile.View{}, nil).Once()
	down.On("CancelSubscription", mock.Anything, "u2").Return(nil, errors.New("db error")).Once()
	pub.On("Publish", mock.Anything, "expired", first).Return(nil).Once()

	got := NewService(repo, down, pub, newNoopLogger()).ResetExpired(context.Background())
	assert.Equal(t, 1, got)
	down.AssertExpectations(t)
	pub.AssertExpectations(t)
	pub.AssertNotCalled(t, "Publish", mock.Anything, "expired", second)
}

func TestService_RunStopsOnCancel(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindSubscriptionsExpiringTomorrow", mock.Anything).Return([]models.SubscriptionNotice{}, nil)
	repo.On("FindExpiredSubscriptions", mock.Anything).Return([]models.SubscriptionNotice{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewService(repo, new(MockDowngrader), new(MockPublisher), newNoopLogger()).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
