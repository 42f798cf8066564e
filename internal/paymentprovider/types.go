package paymentprovider

import "time"

// События уведомлений платёжного провайдера.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
)

// Amount представляет денежную сумму.
type Amount struct {
	Value    string `json:"value"`    // сумма, например "29.99"
	Currency string `json:"currency"` // валюта, например "USD"
}

// CreatePaymentRequest представляет запрос на создание платежа.
type CreatePaymentRequest struct {
	Amount       Amount            `json:"amount"`
	PaymentToken string            `json:"payment_token"`
	Capture      bool              `json:"capture"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"` // user_uid, product
}

// Payment платёж на стороне провайдера.
type Payment struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Paid      bool              `json:"paid"`
	Amount    Amount            `json:"amount"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// WebhookEvent уведомление об изменении статуса платежа.
type WebhookEvent struct {
	Type   string  `json:"type"`
	Event  string  `json:"event"`
	Object Payment `json:"object"`
}
