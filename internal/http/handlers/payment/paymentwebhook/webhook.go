// Package paymentwebhook принимает уведомления платёжного провайдера.
package paymentwebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/paymentprovider"
	"github.com/magabrotheeeer/nutrition-app/internal/services/purchase"
)

const maxBodySize = 1 << 20

// Service обрабатывает уведомление провайдера.
type Service interface {
	ProcessWebhookEvent(ctx context.Context, payload []byte) error
}

// Handler проверяет подпись уведомления и передаёт его в Service.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// ServeHTTP godoc
// @Summary Уведомление платежного провайдера
// @Description Подпись тела передаётся в заголовке X-Api-Signature (base64 HMAC-SHA256).
// @Tags Payments
// @Accept  json
// @Success 200
// @Failure 400 "Некорректное уведомление"
// @Failure 401 "Неверная подпись"
// @Failure 500 "Ошибка обработки"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get(paymentprovider.SignatureHeader)
	if signature == "" || !paymentprovider.VerifySignature(h.webhookSecret, body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.service.ProcessWebhookEvent(r.Context(), body); err != nil {
		if errors.Is(err, purchase.ErrInvalidEvent) {
			log.Warn("invalid webhook payload", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("webhook processed successfully")
	w.WriteHeader(http.StatusOK)
}
