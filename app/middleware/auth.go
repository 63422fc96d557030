package appMiddleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenChecker reports whether a token is one of the stored API tokens.
type TokenChecker interface {
	TokenExists(ctx context.Context, token string) (bool, error)
}

// RequireAPIKey reads the API key from the given header, checks it against
// the stored tokens and adds it to the request context. A missing or unknown
// key is answered with 403.
func RequireAPIKey(checker TokenChecker, header string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "RequireAPIKey"), slog.String("path", r.URL.Path))

			token := strings.TrimSpace(r.Header.Get(header))
			if token == "" {
				l.WarnContext(ctx, "API key header missing")
				http.Error(w, "Forbidden: API key required", http.StatusForbidden)
				return
			}

			ok, err := checker.TokenExists(ctx, token)
			if err != nil {
				l.ErrorContext(ctx, "Failed to check API key", slog.Any("error", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if !ok {
				l.WarnContext(ctx, "Invalid API key")
				http.Error(w, "Forbidden: invalid API key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, APITokenKey, token)))
		})
	}
}
