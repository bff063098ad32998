package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type Middleware struct {
	issuer *TokenIssuer
}

func NewMiddleware(issuer *TokenIssuer) *Middleware {
	return &Middleware{issuer: issuer}
}

// Authenticate verifies the bearer token and attaches its claims to the
// request context. Downstream tenant checks re-fetch the user row; the
// middleware itself touches no storage.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		claims, err := m.issuer.Verify(tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx := WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type ctxKey string

const claimsKey ctxKey = "claims"

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
