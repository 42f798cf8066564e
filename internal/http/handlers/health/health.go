// Package health отдаёт состояние сервиса.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutrition-app/internal/http/response"
)

// Handler отвечает на проверку доступности.
type Handler struct {
	version string
}

// New создает новый экземпляр Handler.
func New(version string) *Handler {
	return &Handler{
		version: version,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status":  "ok",
		"version": h.version,
	}))
}
