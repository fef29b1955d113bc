package account

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/colabhq/colab-server/internal/app"
	svcErr "github.com/colabhq/colab-server/internal/errors"
)

type ctxKey int

const userIDKey ctxKey = iota

// WithUserID returns a child context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user id set by Middleware.
func UserIDFromContext(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(userIDKey).(uint64)
	return id, ok
}

// Middleware resolves the Authorization bearer token to a user id via the
// session store and injects it into the request context. Requests without
// a valid session are rejected with 401.
func Middleware(appCtx *app.AppContext) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				svcErr.Write(w, svcErr.ErrUnauthorized)
				return
			}

			userID, ok, err := appCtx.RedisCache.SessionUserID(r.Context(), token)
			if err != nil {
				appCtx.Logger.Error("session lookup failed", "err", err)
				svcErr.Write(w, err)
				return
			}
			if !ok {
				svcErr.Write(w, svcErr.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(h)
}
