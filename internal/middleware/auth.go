package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"go.uber.org/zap"
)

// TokenParser validates an access token and returns its claims.
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (*usecase.Claims, error)
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// JWTAuth rejects requests without a valid bearer token and stores the
// caller's claims in the request context.
func JWTAuth(parser TokenParser, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				log.Debug("JWTAuth: missing or malformed authorization header", zap.String("path", r.URL.Path))
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			claims, err := parser.ParseToken(r.Context(), token)
			if err != nil {
				log.Warn("JWTAuth: token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, claims.UserID)
			ctx = context.WithValue(ctx, UserRoleCtxKey, claims.Role)
			ctx = context.WithValue(ctx, ClaimsCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CronAuth admits only callers presenting the shared scheduler secret. An
// empty secret locks the routes entirely.
func CronAuth(secret string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				log.Warn("CronAuth: unauthorized trigger", zap.String("path", r.URL.Path), zap.String("remote_addr", r.RemoteAddr))
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSection answers 404 when the named site section is switched off.
func RequireSection(sections map[string]bool, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sections[name] {
				writeJSONError(w, http.StatusNotFound, "Not found")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
