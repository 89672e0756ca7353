package repositories

import (
	"context"
	"fmt"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/database"
	"github.com/draftforge/draft-engine/pkg/models"
)

// RefinementRepository defines the interface for refinement-history access.
// History rows are append-only.
type RefinementRepository interface {
	// ApplyRefinement records the rewrite audit row and overwrites the
	// content body in one transaction. A mid-sequence failure leaves
	// no partial state.
	ApplyRefinement(ctx context.Context, contentID int64, instruction, originalText, refinedText string) (*models.RefinementHistory, error)
	ListByContent(ctx context.Context, contentID int64) ([]*models.RefinementHistory, error)
}

// refinementRepository implements RefinementRepository using PostgreSQL.
type refinementRepository struct {
	db *database.DB
}

// NewRefinementRepository creates a new refinement repository.
func NewRefinementRepository(db *database.DB) RefinementRepository {
	return &refinementRepository{db: db}
}

// ApplyRefinement atomically appends the audit row and updates the body.
func (r *refinementRepository) ApplyRefinement(ctx context.Context, contentID int64, instruction, originalText, refinedText string) (*models.RefinementHistory, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	history := &models.RefinementHistory{
		ContentID:    contentID,
		Prompt:       instruction,
		OriginalText: originalText,
		RefinedText:  refinedText,
	}

	insertQuery := `
		INSERT INTO refinement_history (content_id, prompt, original_text, refined_text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err = tx.QueryRow(ctx, insertQuery,
		history.ContentID,
		history.Prompt,
		history.OriginalText,
		history.RefinedText,
	).Scan(&history.ID, &history.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to insert refinement history: %w", err)
	}

	updateQuery := `UPDATE contents SET content_text = $1 WHERE id = $2`

	result, err := tx.Exec(ctx, updateQuery, refinedText, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to update content text: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return history, nil
}

// ListByContent returns a content row's refinement history, oldest first.
func (r *refinementRepository) ListByContent(ctx context.Context, contentID int64) ([]*models.RefinementHistory, error) {
	query := `
		SELECT id, content_id, prompt, original_text, refined_text, created_at
		FROM refinement_history
		WHERE content_id = $1
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refinement history: %w", err)
	}
	defer rows.Close()

	var history []*models.RefinementHistory
	for rows.Next() {
		var h models.RefinementHistory
		if err := rows.Scan(
			&h.ID,
			&h.ContentID,
			&h.Prompt,
			&h.OriginalText,
			&h.RefinedText,
			&h.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan refinement history: %w", err)
		}
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read refinement history: %w", err)
	}

	return history, nil
}

// Ensure refinementRepository implements RefinementRepository at compile time.
var _ RefinementRepository = (*refinementRepository)(nil)
