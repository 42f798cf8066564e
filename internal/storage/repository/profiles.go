package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

// profileColumns представление профиля в колонках таблицы users.
type profileColumns struct {
	body          []byte
	macros        []byte
	tier          string
	start         sql.NullTime
	end           sql.NullTime
	freeTrial     sql.NullBool
	purchaseType  string
	purchasedAt   sql.NullTime
	transactionID sql.NullString
	features      []byte
}

func newProfileColumns(p models.Profile) (profileColumns, error) {
	body, err := json.Marshal(p.Body)
	if err != nil {
		return profileColumns{}, err
	}
	macros, err := json.Marshal(p.Macros)
	if err != nil {
		return profileColumns{}, err
	}
	features := p.Purchase.Features
	if features == nil {
		features = []string{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return profileColumns{}, err
	}

	c := profileColumns{
		body:          body,
		macros:        macros,
		tier:          string(p.Subscription.Tier),
		purchaseType:  string(p.Purchase.Type),
		features:      featuresJSON,
		transactionID: sql.NullString{String: p.Purchase.TransactionID, Valid: p.Purchase.TransactionID != ""},
	}
	if c.tier == "" {
		c.tier = string(models.TierFree)
	}
	if c.purchaseType == "" {
		c.purchaseType = string(models.PurchaseFree)
	}
	if p.Subscription.StartDate != nil {
		c.start = sql.NullTime{Time: *p.Subscription.StartDate, Valid: true}
	}
	if p.Subscription.EndDate != nil {
		c.end = sql.NullTime{Time: *p.Subscription.EndDate, Valid: true}
	}
	if p.Subscription.FreeTrial != nil {
		c.freeTrial = sql.NullBool{Bool: *p.Subscription.FreeTrial, Valid: true}
	}
	if p.Purchase.PurchasedAt != nil {
		c.purchasedAt = sql.NullTime{Time: *p.Purchase.PurchasedAt, Valid: true}
	}
	return c, nil
}

// GetProfile возвращает профиль пользователя.
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT username, email, icon, body, macros,
			      subscription_tier, subscription_start, subscription_end, free_trial,
			      purchase_type, purchased_at, transaction_id, features
			  FROM users
			  WHERE uid = $1`

	var (
		p    models.Profile
		tier string
		c    profileColumns
	)
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&p.Common.Username, &p.Common.Email, &p.Common.Icon, &c.body, &c.macros,
		&tier, &c.start, &c.end, &c.freeTrial,
		&c.purchaseType, &c.purchasedAt, &c.transactionID, &c.features,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(c.body, &p.Body); err != nil {
		return nil, fmt.Errorf("%s: body: %w", op, err)
	}
	if err := json.Unmarshal(c.macros, &p.Macros); err != nil {
		return nil, fmt.Errorf("%s: macros: %w", op, err)
	}
	if err := json.Unmarshal(c.features, &p.Purchase.Features); err != nil {
		return nil, fmt.Errorf("%s: features: %w", op, err)
	}

	p.Subscription.Tier = models.SubscriptionTier(tier)
	if c.start.Valid {
		t := c.start.Time
		p.Subscription.StartDate = &t
	}
	if c.end.Valid {
		t := c.end.Time
		p.Subscription.EndDate = &t
	}
	if c.freeTrial.Valid {
		b := c.freeTrial.Bool
		p.Subscription.FreeTrial = &b
	}
	p.Purchase.Type = models.PurchaseType(c.purchaseType)
	if c.purchasedAt.Valid {
		t := c.purchasedAt.Time
		p.Purchase.PurchasedAt = &t
	}
	p.Purchase.TransactionID = c.transactionID.String

	return &p, nil
}

// UpsertProfile перезаписывает профиль пользователя. Последняя запись побеждает.
// Email учётной записи не меняется.
func (s *Storage) UpsertProfile(ctx context.Context, userUID string, profile models.Profile) error {
	const op = "storage.UpsertProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	c, err := newProfileColumns(profile)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE users
			  SET username = $1, icon = $2, body = $3, macros = $4,
			      subscription_tier = $5, subscription_start = $6, subscription_end = $7, free_trial = $8,
			      purchase_type = $9, purchased_at = $10, transaction_id = $11, features = $12,
			      updated_at = now()
			  WHERE uid = $13`
	res, err := s.DB.ExecContext(ctx, query,
		profile.Common.Username, profile.Common.Icon, c.body, c.macros,
		c.tier, c.start, c.end, c.freeTrial,
		c.purchaseType, c.purchasedAt, c.transactionID, c.features,
		userUID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
