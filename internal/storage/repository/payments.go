package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

// SavePayment сохраняет проведённый платёж. Повторная запись с тем же
// transaction_id игнорируется; второй результат сообщает, была ли создана запись.
func (s *Storage) SavePayment(ctx context.Context, p models.Payment) (int, bool, error) {
	const op = "storage.SavePayment"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_uid, transaction_id, product, amount, currency, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (transaction_id) DO NOTHING
			  RETURNING id`
	var id int
	err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.TransactionID, p.Product, p.Amount, p.Currency, p.Status,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return id, true, nil
}

// ListPayments возвращает платежи пользователя, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, userUID string) ([]models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, transaction_id, product, amount, currency, status, created_at
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Payment, 0)
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserUID, &p.TransactionID, &p.Product,
			&p.Amount, &p.Currency, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
