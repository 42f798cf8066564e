package models

import "time"

// SubscriptionNotice сообщение об окончании подписки для очереди уведомлений.
type SubscriptionNotice struct {
	UserUID  string    `json:"user_uid"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	EndDate  time.Time `json:"end_date"`
}

// PurchaseReceipt сообщение о покупке пожизненного доступа.
type PurchaseReceipt struct {
	UserUID       string    `json:"user_uid"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	PurchasedAt   time.Time `json:"purchased_at"`
	Features      []string  `json:"features"`
}
