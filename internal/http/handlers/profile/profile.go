// Package profile реализует HTTP-обработчики профиля пользователя: чтение,
// полную замену, частичные обновления и действия над подпиской.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutrition-app/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutrition-app/internal/http/response"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
	"github.com/magabrotheeeer/nutrition-app/internal/store"
)

// Getter читает профиль пользователя.
type Getter interface {
	Get(ctx context.Context, userUID string) (*profile.View, error)
}

// Action действие над профилем без входных данных.
type Action func(ctx context.Context, userUID string) (*profile.View, error)

// GetHandler отдаёт профиль текущего пользователя.
type GetHandler struct {
	log     *slog.Logger
	service Getter
}

// NewGet создает новый экземпляр GetHandler.
func NewGet(log *slog.Logger, service Getter) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль пользователя
// @Description Возвращает профиль с производными значениями (BMI, премиум, функции).
// @Tags Profile
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Профиль не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /profile [get]
// @Security BearerAuth
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.get"
	log := requestLogger(h.log, r, op)

	userUID, ok := middlewarectx.UserUIDFrom(r.Context())
	if !ok {
		unauthorized(w, r, log)
		return
	}

	view, err := h.service.Get(r.Context(), userUID)
	if err != nil {
		writeServiceError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(view))
}

// ActionHandler выполняет действие над профилем без тела запроса:
// расчёт макронутриентов, активацию и отмену подписки.
type ActionHandler struct {
	log    *slog.Logger
	op     string
	action Action
}

// NewAction создает обработчик для действия action. op используется в логах.
func NewAction(log *slog.Logger, op string, action Action) *ActionHandler {
	return &ActionHandler{log: log, op: op, action: action}
}

func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, r, h.op)

	userUID, ok := middlewarectx.UserUIDFrom(r.Context())
	if !ok {
		unauthorized(w, r, log)
		return
	}

	view, err := h.action(r.Context(), userUID)
	if err != nil {
		writeServiceError(w, r, log, err)
		return
	}
	log.Info("profile updated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(view))
}

func requestLogger(log *slog.Logger, r *http.Request, op string) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func unauthorized(w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	log.Error("user UID not found in context")
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("unauthorized"))
}

func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		log.Warn("profile not found", sl.Err(err))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("profile not found"))
	case errors.Is(err, store.ErrInvalidActivity):
		log.Warn("invalid activity", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(store.ErrInvalidActivity.Error()))
	default:
		log.Error("profile operation failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
	}
}
