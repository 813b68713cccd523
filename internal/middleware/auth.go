package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/aviralrabbit1/nextNotes/pkg/api/response"
	"github.com/aviralrabbit1/nextNotes/pkg/auth"
)

type key string

const userKey key = "user"

// JWT rejects any request without a valid bearer token and stores the
// authenticated user id in the request context.
func JWT(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthenticated(w, r, "missing authorization header")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthenticated(w, r, "invalid authorization header")
				return
			}
			userID, err := tm.ParseToken(parts[1])
			if err != nil {
				unauthenticated(w, r, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(response.CodeUnauthenticated, msg))
}

// UserID resolves the authenticated user set by JWT. Handlers must pass the
// returned id explicitly into every storage call.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	uid, ok := ctx.Value(userKey).(uuid.UUID)
	return uid, ok
}
