package server

import (
	"context"
	"net/http"
	"strings"

	"list-backend/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// requireAuth parses the Authorization header, resolves the bearer token
// into an active user, and stores the user in the request context. Every
// failure is a 401; the response never says which check failed.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondWithError(w, http.StatusUnauthorized, "Authorization header must be in the format 'Bearer {token}'")
			return
		}

		user, err := s.authService.Resolve(r.Context(), parts[1])
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user placed there by
// requireAuth, or nil when the request skipped the middleware.
func userFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}
