// Package metrics регистрирует метрики Prometheus сервиса.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nutrition_http_requests_total",
			Help: "Total number of HTTP requests labeled by route and status",
		},
		[]string{"route", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nutrition_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	macroCalculationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nutrition_macro_calculations_total",
			Help: "Total number of macro calculations",
		},
	)
	profileSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nutrition_profile_sync_total",
			Help: "Profile writes to the remote table labeled by result",
		},
		[]string{"result"},
	)
	purchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nutrition_purchases_total",
			Help: "Purchases labeled by status",
		},
		[]string{"status"},
	)
	notificationsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nutrition_notifications_published_total",
			Help: "Notifications published to the broker labeled by routing key",
		},
		[]string{"routing_key"},
	)
)

// RecordHTTPRequest учитывает обработанный HTTP-запрос.
func RecordHTTPRequest(route string, status int, duration time.Duration) {
	if route == "" {
		route = "unknown"
	}
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordMacroCalculation учитывает расчёт макросов.
func RecordMacroCalculation() {
	macroCalculationsTotal.Inc()
}

// RecordProfileSync учитывает результат записи профиля.
func RecordProfileSync(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	profileSyncTotal.WithLabelValues(result).Inc()
}

// RecordPurchase учитывает покупку с указанным статусом.
func RecordPurchase(status string) {
	purchasesTotal.WithLabelValues(status).Inc()
}

// RecordNotification учитывает опубликованное уведомление.
func RecordNotification(routingKey string) {
	notificationsPublishedTotal.WithLabelValues(routingKey).Inc()
}
