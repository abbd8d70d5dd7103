// Package middleware provides the HTTP middleware shared by every route group.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/logger"
	"github.com/shashiranjanraj/nutritrack/pkg/response"
)

// TokenResolver turns a raw bearer token into the caller's identity.
// *auth.Tokens satisfies it.
type TokenResolver interface {
	Resolve(ctx context.Context, raw string) (auth.Identity, error)
}

// Auth rejects requests without a live bearer token with 401 "Unauthenticated."
// and stores the resolved identity in the request context.
//
//	r.Group(func(r *router.Router) {
//	    r.Use(middleware.Auth(tokens))
//	    r.Get("/meals", "meals.index", ctx.Wrap(mc.Index))
//	})
func Auth(tokens TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.Unauthenticated(w)
				return
			}

			id, err := tokens.Resolve(r.Context(), raw)
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					response.Unauthenticated(w)
					return
				}
				logger.WithCtx(r.Context()).Error("token lookup failed", "error", err)
				response.InternalError(w)
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user_id", id.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
