// Package repositories contains pgx-backed data access for draft-engine.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/database"
	"github.com/draftforge/draft-engine/pkg/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Upsert inserts a user keyed on the provider subject id, or refreshes
	// the email if the user already exists. Fills ID and CreatedAt. Returns
	// apperrors.ErrConflict when the email belongs to a different subject.
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert atomically creates or refreshes a user record.
// ON CONFLICT keyed on provider_uid makes concurrent first-seen
// authentications race-safe.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, provider_uid)
		VALUES ($1, $2)
		ON CONFLICT (provider_uid) DO UPDATE
		SET email = EXCLUDED.email
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, user.Email, user.ProviderUID).Scan(
		&user.ID,
		&user.CreatedAt,
	)
	if err != nil {
		// The conflict target is provider_uid, so a unique violation here
		// (PostgreSQL error code 23505) means the email is taken by a
		// different provider subject.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by local id.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, provider_uid, created_at
		FROM users
		WHERE id = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.ProviderUID,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
