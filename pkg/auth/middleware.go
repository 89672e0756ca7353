package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/models"
)

// UserResolver maps verified token claims to a local user record,
// creating one on first sight. Implemented by services.UserService.
type UserResolver interface {
	ResolveFromClaims(ctx context.Context, claims *Claims) (*models.User, error)
}

// Middleware provides HTTP authentication middleware.
// It is thin and delegates verification to AuthService and user
// resolution to UserResolver.
type Middleware struct {
	authService AuthService
	users       UserResolver
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService AuthService, users UserResolver, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		users:       users,
		logger:      logger,
	}
}

// RequireAuth verifies the bearer token, resolves the local user and
// sets claims and user in context for downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authService.ValidateRequest(r)
		if err != nil {
			m.unauthorized(w, "Authentication required")
			return
		}

		user, err := m.users.ResolveFromClaims(r.Context(), claims)
		if err != nil {
			m.logger.Error("Failed to resolve user from claims",
				zap.String("subject", claims.Subject),
				zap.Error(err))
			m.internalError(w, "Failed to resolve user")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, UserKey, user)
		next(w, r.WithContext(ctx))
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}

// internalError returns a 500 response with JSON error body.
func (m *Middleware) internalError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "internal_error",
		"message": message,
	})
}
