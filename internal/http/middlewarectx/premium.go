package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutrition-app/internal/http/response"
	"github.com/magabrotheeeer/nutrition-app/internal/lib/sl"
)

// PremiumChecker сообщает, есть ли у пользователя премиум-доступ.
type PremiumChecker interface {
	HasPremium(ctx context.Context, userUID string) (bool, error)
}

// RequirePremium пропускает только пользователей с премиум-доступом.
func RequirePremium(log *slog.Logger, checker PremiumChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := UserUIDFrom(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			premium, err := checker.HasPremium(r.Context(), userUID)
			if err != nil {
				log.Error("failed to check premium access", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !premium {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("premium access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
