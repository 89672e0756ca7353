package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
)

// AuthService defines the interface for authentication operations.
// This abstraction enables clean separation between HTTP handling
// and token verification, making both easier to test.
type AuthService interface {
	// ValidateRequest extracts and verifies the bearer token from the
	// Authorization header. Returns the verified claims or an error.
	ValidateRequest(r *http.Request) (*Claims, error)

	// ValidateToken verifies a raw token string.
	ValidateToken(tokenString string) (*Claims, error)
}

// authService implements AuthService.
type authService struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService with the given verifier and logger.
func NewAuthService(verifier TokenVerifier, logger *zap.Logger) AuthService {
	return &authService{
		verifier: verifier,
		logger:   logger,
	}
}

// ValidateRequest extracts and verifies the bearer token from the request.
func (s *authService) ValidateRequest(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No bearer token in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, ErrInvalidAuthFormat
	}

	claims, err := s.verifier.VerifyToken(parts[1])
	if err != nil {
		s.logger.Debug("Token verification failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, err
	}

	return claims, nil
}

// ValidateToken verifies a raw token string.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.verifier.VerifyToken(tokenString)
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
