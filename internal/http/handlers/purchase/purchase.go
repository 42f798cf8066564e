// Package purchase реализует HTTP-обработчики покупки пожизненного доступа
// и просмотра истории платежей.
package purchase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nutrition-app/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutrition-app/internal/http/response"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/models"
	"github.com/magabrotheeeer/nutrition-app/internal/paymentprovider"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
	"github.com/magabrotheeeer/nutrition-app/internal/services/purchase"
)

// CreateRequest запрос на покупку пожизненного доступа.
type CreateRequest struct {
	PaymentToken string `json:"payment_token" validate:"required"`
}

// Service определяет интерфейс сценариев покупки.
type Service interface {
	CreateLifetimePayment(ctx context.Context, userUID, paymentToken string) (*paymentprovider.Payment, error)
	Status(ctx context.Context, userUID string) (*purchase.Status, error)
	ListPayments(ctx context.Context, userUID string) ([]models.Payment, error)
}

// Handler обрабатывает запросы покупки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) userUID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	userUID, ok := middlewarectx.UserUIDFrom(r.Context())
	if !ok {
		log.Error("user UID not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
	}
	return userUID, ok
}

// Create godoc
// @Summary Купить пожизненный доступ
// @Description Создает платеж у провайдера. Доступ выдаётся после уведомления payment.succeeded.
// @Tags Purchase
// @Accept  json
// @Produce  json
// @Param request body CreateRequest true "Токен платежного метода"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Доступ уже куплен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка платежного провайдера"
// @Router /purchase [post]
// @Security BearerAuth
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.create"
	log := h.logger(r, op)

	userUID, ok := h.userUID(w, r, log)
	if !ok {
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	payment, err := h.service.CreateLifetimePayment(r.Context(), userUID, req.PaymentToken)
	switch {
	case errors.Is(err, purchase.ErrAlreadyPurchased):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("lifetime access already purchased"))
		return
	case errors.Is(err, profile.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("profile not found"))
		return
	case err != nil:
		log.Error("failed to create payment", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("payment provider error"))
		return
	}

	log.Info("payment created", slog.String("payment_id", payment.ID))
	render.JSON(w, r, response.StatusOKWithData(payment))
}

// Status godoc
// @Summary Состояние покупки
// @Tags Purchase
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /purchase [get]
// @Security BearerAuth
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.status"
	log := h.logger(r, op)

	userUID, ok := h.userUID(w, r, log)
	if !ok {
		return
	}

	status, err := h.service.Status(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read purchase status", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(status))
}

// ListPayments godoc
// @Summary История платежей
// @Tags Payments
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments [get]
// @Security BearerAuth
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.payments"
	log := h.logger(r, op)

	userUID, ok := h.userUID(w, r, log)
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	render.JSON(w, r, response.StatusOKWithData(payments))
}
