// Package services contains the business logic of draft-engine.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/auth"
	"github.com/draftforge/draft-engine/pkg/models"
	"github.com/draftforge/draft-engine/pkg/repositories"
)

// UserService defines the interface for user operations.
// It doubles as the auth middleware's UserResolver.
type UserService interface {
	// ResolveFromClaims maps verified token claims to a local user,
	// creating one on first sight.
	ResolveFromClaims(ctx context.Context, claims *auth.Claims) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// userService implements UserService.
type userService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ResolveFromClaims upserts the local user record for the token subject.
// The upsert is atomic, so concurrent first-seen authentications cannot
// create duplicate rows.
func (s *userService) ResolveFromClaims(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	if claims.Subject == "" {
		return nil, fmt.Errorf("claims have no subject")
	}

	user := &models.User{
		Email:       claims.Email,
		ProviderUID: claims.Subject,
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by local id.
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)

// Ensure userService satisfies the auth middleware's resolver contract.
var _ auth.UserResolver = (UserService)(nil)
