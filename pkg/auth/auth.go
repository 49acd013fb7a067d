package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const (
	userContextKey  contextKey = "auth.user"
	emailContextKey contextKey = "auth.email"
)

var (
	ErrMissingCredentials = errors.New("missing authorization header")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailContextKey, email)
}

func User(ctx context.Context) string {
	val, _ := ctx.Value(userContextKey).(string)
	return val
}

func Email(ctx context.Context) string {
	val, _ := ctx.Value(emailContextKey).(string)
	return val
}

// BearerToken returns the token of a "Bearer" authorization header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	if header == "" {
		return "", ErrMissingCredentials
	}

	scheme, token, ok := strings.Cut(header, " ")

	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidCredentials
	}

	return strings.TrimSpace(token), nil
}

// Middleware admits a request once any provider authenticates it. Without
// providers every request passes.
func Middleware(providers ...Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(providers) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var lastErr error

			for _, p := range providers {
				ctx, err := p.Authenticate(r.Context(), r)

				if err == nil {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				lastErr = err
			}

			slog.DebugContext(r.Context(), "request unauthorized", "path", r.URL.Path, "error", lastErr)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", "Bearer")
			w.WriteHeader(http.StatusUnauthorized)

			json.NewEncoder(w).Encode(map[string]string{
				"error": "unauthorized",
			})
		})
	}
}
