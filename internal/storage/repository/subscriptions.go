package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

// FindSubscriptionsExpiringTomorrow находит активные подписки, которые заканчиваются завтра.
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]models.SubscriptionNotice, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"
	return s.findNotices(ctx, op, `SELECT uid, email, username, subscription_end
			  FROM users
			  WHERE subscription_tier = 'active'
			    AND subscription_end::DATE = CURRENT_DATE + 1`)
}

// FindExpiredSubscriptions находит активные подписки с прошедшей датой окончания.
func (s *Storage) FindExpiredSubscriptions(ctx context.Context) ([]models.SubscriptionNotice, error) {
	const op = "storage.FindExpiredSubscriptions"
	return s.findNotices(ctx, op, `SELECT uid, email, username, subscription_end
			  FROM users
			  WHERE subscription_tier = 'active'
			    AND subscription_end < now()`)
}

func (s *Storage) findNotices(ctx context.Context, op, query string) ([]models.SubscriptionNotice, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.SubscriptionNotice
	for rows.Next() {
		var n models.SubscriptionNotice
		if err := rows.Scan(&n.UserUID, &n.Email, &n.Username, &n.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
