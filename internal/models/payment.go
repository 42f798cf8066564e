package models

import "time"

// Продукты, доступные к покупке.
const (
	ProductLifetime = "lifetime"
)

// Статусы платежа.
const (
	PaymentSucceeded = "succeeded"
	PaymentCanceled  = "canceled"
	PaymentPending   = "pending"
)

// Payment запись о проведённой транзакции.
type Payment struct {
	ID            int       `json:"id"`
	UserUID       string    `json:"user_uid"`
	TransactionID string    `json:"transaction_id"`
	Product       string    `json:"product"`
	Amount        int64     `json:"amount"` // в минимальных единицах валюты
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
