package rabbitmq

// ExchangeNotifications обменник уведомлений.
const ExchangeNotifications = "notifications"

// Очереди и ключи маршрутизации уведомлений.
const (
	QueueSubscriptionExpiring = "subscription_expiring_queue"
	QueueSubscriptionExpired  = "subscription_expired_queue"
	QueuePurchaseReceipt      = "purchase_receipt_queue"

	RoutingKeyExpiring = "expiring"
	RoutingKeyExpired  = "expired"
	RoutingKeyReceipt  = "receipt"
)

// QueueConfig очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые обслуживает сервис рассылки.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueSubscriptionExpiring, RoutingKey: RoutingKeyExpiring},
		{QueueName: QueueSubscriptionExpired, RoutingKey: RoutingKeyExpired},
		{QueueName: QueuePurchaseReceipt, RoutingKey: RoutingKeyReceipt},
	}
}
