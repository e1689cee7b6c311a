// Package session guards routes that need a logged in user. The token travels
// in the x_auth cookie; a request whose token does not resolve never reaches
// the wrapped handler.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"blog-api/internal/domain/models"
	resp "blog-api/internal/lib/api/response"
	"blog-api/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const CookieName = "x_auth"

type Resolver interface {
	ResolveToken(ctx context.Context, token string) (models.User, error)
}

type ctxKey struct{}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(models.User)
	return user, ok
}

func New(log *slog.Logger, resolver Resolver) func(next http.Handler) http.Handler {
	log = log.With(slog.String("component", "middleware/session"))

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(CookieName); err == nil {
				token = c.Value
			}

			user, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				log.Info("unauthorized request",
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Error(err),
				)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Unauthorized{IsAuth: false, Success: false, Message: "invalid token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		}

		return http.HandlerFunc(fn)
	}
}
