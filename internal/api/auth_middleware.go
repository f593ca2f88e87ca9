package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDContextKey contextKey = "userID"
const userEmailContextKey contextKey = "userEmail"

// AuthMiddleware validates HS256 bearer tokens issued by the auth service and
// injects the user ID and email into the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
			tokenString, ok := bearerToken(authHeader)
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "Authorization required")
				return
			}

			claims := jwt.MapClaims{}
			token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return key, nil
			})
			if err != nil || !token.Valid {
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			sub, ok := claims["sub"].(string)
			if !ok || strings.TrimSpace(sub) == "" {
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, sub)
			if email, ok := claims["email"].(string); ok && email != "" {
				ctx = context.WithValue(ctx, userEmailContextKey, email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user ID from request context.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok
}

// EmailFromContext returns the authenticated email from request context.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailContextKey).(string)
	return email, ok
}

func bearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}

	return token, true
}
