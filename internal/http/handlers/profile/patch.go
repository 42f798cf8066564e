package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nutrition-app/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutrition-app/internal/http/response"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
	"github.com/magabrotheeeer/nutrition-app/internal/services/profile"
)

// Apply применяет изменение T к профилю пользователя.
type Apply[T any] func(ctx context.Context, userUID string, change T) (*profile.View, error)

// PatchHandler декодирует и валидирует тело запроса T и передаёт его в apply.
// Используется и для частичных обновлений, и для полной замены профиля.
type PatchHandler[T any] struct {
	log      *slog.Logger
	op       string
	apply    Apply[T]
	validate *validator.Validate
}

// NewPatch создает новый экземпляр PatchHandler.
func NewPatch[T any](log *slog.Logger, op string, apply Apply[T]) *PatchHandler[T] {
	return &PatchHandler[T]{
		log:      log,
		op:       op,
		apply:    apply,
		validate: validator.New(),
	}
}

func (h *PatchHandler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(h.log, r, h.op)

	userUID, ok := middlewarectx.UserUIDFrom(r.Context())
	if !ok {
		unauthorized(w, r, log)
		return
	}

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	view, err := h.apply(r.Context(), userUID, req)
	if err != nil {
		writeServiceError(w, r, log, err)
		return
	}
	log.Info("profile updated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(view))
}
