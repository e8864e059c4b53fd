package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jtallman/projtrack/internal/auth"
)

type key string

const (
	// UserIDKey carries the authenticated caller's uuid through the request context.
	UserIDKey key = "user_id"
	// EmailKey carries the authenticated caller's email through the request context.
	EmailKey key = "email"
)

const bearerPrefix = "Bearer "

// Auth is the per-request authentication gate. It requires the exact
// "Bearer " prefix (case-sensitive, single space) on the Authorization
// header, verifies the token, and yields the caller's identity to the
// handler via the context. Tokens are self-contained; there is no session
// lookup and the gate runs independently on every request.
func Auth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, bearerPrefix) {
				unauthorized(w, "Unauthorized")
				return
			}

			claims, err := tokens.Verify(authHeader[len(bearerPrefix):])
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			// Verify guarantees UserID parses.
			userID, _ := uuid.Parse(claims.UserID)

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id stored by Auth.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

// GetEmail returns the authenticated email stored by Auth.
func GetEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
