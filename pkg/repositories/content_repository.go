package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/database"
	"github.com/draftforge/draft-engine/pkg/models"
)

// ContentRepository defines the interface for content-section data access.
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	// CreateBatch inserts all rows in one transaction; no partial rows
	// are committed on failure.
	CreateBatch(ctx context.Context, contents []*models.Content) error
	GetInProject(ctx context.Context, id, projectID int64) (*models.Content, error)
	Get(ctx context.Context, id int64) (*models.Content, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.Content, error)
	NextOrder(ctx context.Context, projectID int64) (int, error)
	Delete(ctx context.Context, id, projectID int64) error
	// UpdateOrders sets section_order for each content id in one
	// transaction. Ids map to their new zero-based position.
	UpdateOrders(ctx context.Context, projectID int64, orders map[int64]int) error
	UpdateText(ctx context.Context, id int64, text string) error
	SetFeedback(ctx context.Context, id, projectID int64, feedback string) error
	SetNotes(ctx context.Context, id, projectID int64, notes string) error
}

// contentRepository implements ContentRepository using PostgreSQL.
type contentRepository struct {
	db *database.DB
}

// NewContentRepository creates a new content repository.
func NewContentRepository(db *database.DB) ContentRepository {
	return &contentRepository{db: db}
}

const contentColumns = `id, project_id, section_order, title, content_text, metadata_props, feedback, user_notes`

func scanContent(row pgx.Row) (*models.Content, error) {
	var content models.Content
	var metadata []byte
	err := row.Scan(
		&content.ID,
		&content.ProjectID,
		&content.SectionOrder,
		&content.Title,
		&content.ContentText,
		&metadata,
		&content.Feedback,
		&content.UserNotes,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metadata, &content.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return &content, nil
}

// Create inserts a new content row. Fills ID.
func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	metadata, err := json.Marshal(content.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO contents (project_id, section_order, title, content_text, metadata_props)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = r.db.QueryRow(ctx, query,
		content.ProjectID,
		content.SectionOrder,
		content.Title,
		content.ContentText,
		metadata,
	).Scan(&content.ID)
	if err != nil {
		return fmt.Errorf("failed to create content: %w", err)
	}

	return nil
}

// CreateBatch inserts all content rows in a single transaction.
func (r *contentRepository) CreateBatch(ctx context.Context, contents []*models.Content) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO contents (project_id, section_order, title, content_text, metadata_props)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	for _, content := range contents {
		metadata, err := json.Marshal(content.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		err = tx.QueryRow(ctx, query,
			content.ProjectID,
			content.SectionOrder,
			content.Title,
			content.ContentText,
			metadata,
		).Scan(&content.ID)
		if err != nil {
			return fmt.Errorf("failed to create content: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetInProject retrieves a content row scoped to its project.
func (r *contentRepository) GetInProject(ctx context.Context, id, projectID int64) (*models.Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM contents WHERE id = $1 AND project_id = $2`, contentColumns)

	content, err := scanContent(r.db.QueryRow(ctx, query, id, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	return content, nil
}

// Get retrieves a content row by id.
func (r *contentRepository) Get(ctx context.Context, id int64) (*models.Content, error) {
	query := fmt.Sprintf(`SELECT %s FROM contents WHERE id = $1`, contentColumns)

	content, err := scanContent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}

	return content, nil
}

// ListByProject returns a project's contents in section order.
func (r *contentRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.Content, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM contents
		WHERE project_id = $1
		ORDER BY section_order, id`, contentColumns)

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer rows.Close()

	var contents []*models.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content: %w", err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contents: %w", err)
	}

	return contents, nil
}

// NextOrder returns the next free section_order for a project.
func (r *contentRepository) NextOrder(ctx context.Context, projectID int64) (int, error) {
	query := `SELECT COALESCE(MAX(section_order) + 1, 0) FROM contents WHERE project_id = $1`

	var next int
	if err := r.db.QueryRow(ctx, query, projectID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute next order: %w", err)
	}

	return next, nil
}

// Delete removes a content row scoped to its project. Refinement history
// is removed by the schema's ON DELETE CASCADE.
func (r *contentRepository) Delete(ctx context.Context, id, projectID int64) error {
	query := `DELETE FROM contents WHERE id = $1 AND project_id = $2`

	result, err := r.db.Exec(ctx, query, id, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpdateOrders applies new section_order values in a single transaction.
func (r *contentRepository) UpdateOrders(ctx context.Context, projectID int64, orders map[int64]int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `UPDATE contents SET section_order = $1 WHERE id = $2 AND project_id = $3`

	for id, order := range orders {
		if _, err := tx.Exec(ctx, query, order, id, projectID); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateText overwrites a content row's body.
func (r *contentRepository) UpdateText(ctx context.Context, id int64, text string) error {
	query := `UPDATE contents SET content_text = $1 WHERE id = $2`

	result, err := r.db.Exec(ctx, query, text, id)
	if err != nil {
		return fmt.Errorf("failed to update content text: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SetFeedback stores a feedback tag on a project-scoped content row.
func (r *contentRepository) SetFeedback(ctx context.Context, id, projectID int64, feedback string) error {
	query := `UPDATE contents SET feedback = $1 WHERE id = $2 AND project_id = $3`

	result, err := r.db.Exec(ctx, query, feedback, id, projectID)
	if err != nil {
		return fmt.Errorf("failed to set feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SetNotes stores free-text user notes on a project-scoped content row.
func (r *contentRepository) SetNotes(ctx context.Context, id, projectID int64, notes string) error {
	query := `UPDATE contents SET user_notes = $1 WHERE id = $2 AND project_id = $3`

	result, err := r.db.Exec(ctx, query, notes, id, projectID)
	if err != nil {
		return fmt.Errorf("failed to set notes: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure contentRepository implements ContentRepository at compile time.
var _ ContentRepository = (*contentRepository)(nil)
