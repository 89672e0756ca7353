package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/database"
	"github.com/draftforge/draft-engine/pkg/models"
)

// ProjectRepository defines the interface for project data access.
// All reads and mutations are scoped to the owning user; a project that
// exists but belongs to someone else surfaces as ErrNotFound.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetOwned(ctx context.Context, id, userID int64) (*models.Project, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.Project, error)
	Delete(ctx context.Context, id, userID int64) error
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts a new project. Fills ID and CreatedAt.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (user_id, title, doc_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		project.UserID,
		project.Title,
		project.DocType,
	).Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetOwned retrieves a project by id, scoped to the owner.
func (r *projectRepository) GetOwned(ctx context.Context, id, userID int64) (*models.Project, error) {
	query := `
		SELECT id, user_id, title, doc_type, created_at
		FROM projects
		WHERE id = $1 AND user_id = $2`

	var project models.Project
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&project.ID,
		&project.UserID,
		&project.Title,
		&project.DocType,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// ListByUser returns the user's projects, newest first.
func (r *projectRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.Project, error) {
	query := `
		SELECT id, user_id, title, doc_type, created_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.db.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(
			&project.ID,
			&project.UserID,
			&project.Title,
			&project.DocType,
			&project.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}

	return projects, nil
}

// Delete removes a project owned by the user. Contents and refinement
// history are removed by the schema's ON DELETE CASCADE.
func (r *projectRepository) Delete(ctx context.Context, id, userID int64) error {
	query := `DELETE FROM projects WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
