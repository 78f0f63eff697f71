package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"travelease/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "userID"

// UserIDFromContext returns the user set by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// WithUserID stores userID the way AuthMiddleware does.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// AuthMiddleware validates Supabase HS256 tokens signed with secret and puts
// the token's subject in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// For WebSockets, tokens are passed in the query string
			// because the browser's WebSocket API doesn't support custom headers.
			tokenString := r.URL.Query().Get("token")
			if tokenString == "" {
				tokenString = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			}

			if tokenString == "" {
				writeError(w, "Unauthorized: No token provided", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				if secret == "" {
					return nil, fmt.Errorf("server is not configured to validate JWTs")
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				logger.Sugar.Warnf("Invalid token: %v", err)
				writeError(w, "Unauthorized: Invalid or expired token", http.StatusUnauthorized)
				return
			}

			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				writeError(w, "Unauthorized: User ID (sub) claim is missing or invalid", http.StatusUnauthorized)
				return
			}
			// Supabase subjects are user UUIDs.
			if _, err := uuid.Parse(sub); err != nil {
				writeError(w, "Unauthorized: User ID (sub) claim is missing or invalid", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), sub)))
		})
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, "{\"error\":%q}\n", message)
}
