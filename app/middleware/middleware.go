package appMiddleware

import "context"

type contextKey string

const APITokenKey contextKey = "apiToken"

// GetAPITokenFromContext returns the token accepted by RequireAPIKey.
func GetAPITokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(APITokenKey).(string)
	return token, ok
}
