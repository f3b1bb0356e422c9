package server

import (
	"chat-rooms/auth"
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth validates the bearer token and stores its claims in the
// request context. Websocket clients cannot set headers, so a token
// query parameter is accepted as a fallback.
func RequireAuth(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			log.Debug("Token rejected", "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

// ClaimsFrom returns the authenticated claims, or nil on an
// unauthenticated route.
func ClaimsFrom(ctx context.Context) *auth.CustomClaims {
	claims, _ := ctx.Value(claimsKey).(*auth.CustomClaims)
	return claims
}
