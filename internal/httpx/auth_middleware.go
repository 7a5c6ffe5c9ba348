package httpx

import (
	"net/http"
	"strings"
)

// TokenParser validates a bearer token and returns the subject user id.
type TokenParser func(token string) (string, error)

// AuthMiddleware rejects requests without a valid bearer token and puts
// the authenticated user id on the request context.
func AuthMiddleware(parse TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "unauthorized", "Missing or malformed Authorization header")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			userID, err := parse(token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx := ContextWithUser(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
