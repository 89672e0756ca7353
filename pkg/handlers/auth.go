package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/auth"
	"github.com/draftforge/draft-engine/pkg/services"
)

// CredentialsRequest is the request body for /register and /login.
// Token carries the identity-provider token; Password is accepted as a
// legacy alias for clients that still send the token in that field.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserResponse is the response body for /register and /login.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// AuthHandler handles registration and login.
// Both routes verify the identity-provider token and resolve the local
// user, creating it on first sight; they are intentionally idempotent.
type AuthHandler struct {
	authService auth.AuthService
	userService services.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService auth.AuthService, userService services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /login", h.Login)
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r)
}

// Login handles POST /login.
// Auto-registers unknown users with a valid token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r)
}

func (h *AuthHandler) resolve(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	tokenString := req.Token
	if tokenString == "" {
		tokenString = req.Password
	}
	if tokenString == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_token", "Identity-provider token required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claims, err := h.authService.ValidateToken(tokenString)
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "invalid_token",
			fmt.Sprintf("Invalid authentication token: %v", err)); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.userService.ResolveFromClaims(r.Context(), claims)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusConflict, "email_conflict",
				"Email already registered to another account"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to resolve user", zap.String("subject", claims.Subject), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Failed to resolve user"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, UserResponse{ID: user.ID, Email: user.Email}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
