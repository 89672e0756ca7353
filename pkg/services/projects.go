package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/models"
	"github.com/draftforge/draft-engine/pkg/repositories"
)

// ProjectService defines the interface for project and content operations.
// Every operation is scoped to the acting user; projects owned by someone
// else surface as apperrors.ErrNotFound.
type ProjectService interface {
	Create(ctx context.Context, userID int64, title, docType string) (*models.Project, error)
	List(ctx context.Context, userID int64, offset, limit int) ([]*models.Project, error)
	Get(ctx context.Context, userID, projectID int64) (*models.Project, error)
	Delete(ctx context.Context, userID, projectID int64) error
	// Reorder assigns section_order by position for the supplied content
	// ids that belong to the project. Ids from other projects are ignored.
	// Contents omitted from the list are appended after the supplied ones
	// in their previous relative order, so orders stay dense 0..N-1.
	Reorder(ctx context.Context, userID, projectID int64, orderedContentIDs []int64) error
	CreateContent(ctx context.Context, userID, projectID int64, title, text string, metadata models.JSONBMap) (*models.Content, error)
	DeleteContent(ctx context.Context, userID, projectID, contentID int64) error
	SetFeedback(ctx context.Context, userID, projectID, contentID int64, feedback string) error
	SetNotes(ctx context.Context, userID, projectID, contentID int64, notes string) error
	ContentHistory(ctx context.Context, userID, projectID, contentID int64) ([]*models.RefinementHistory, error)
}

// projectService implements ProjectService.
type projectService struct {
	projectRepo    repositories.ProjectRepository
	contentRepo    repositories.ContentRepository
	refinementRepo repositories.RefinementRepository
	logger         *zap.Logger
}

// NewProjectService creates a new project service with dependencies.
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	contentRepo repositories.ContentRepository,
	refinementRepo repositories.RefinementRepository,
	logger *zap.Logger,
) ProjectService {
	return &projectService{
		projectRepo:    projectRepo,
		contentRepo:    contentRepo,
		refinementRepo: refinementRepo,
		logger:         logger,
	}
}

// Create creates a project for the user.
func (s *projectService) Create(ctx context.Context, userID int64, title, docType string) (*models.Project, error) {
	if !models.IsValidDocType(docType) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidDocType, docType)
	}

	project := &models.Project{
		UserID:  userID,
		Title:   title,
		DocType: docType,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	project.Contents = []*models.Content{}

	return project, nil
}

// List returns the user's projects with their contents.
func (s *projectService) List(ctx context.Context, userID int64, offset, limit int) ([]*models.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	projects, err := s.projectRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}

	for _, project := range projects {
		contents, err := s.contentRepo.ListByProject(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		if contents == nil {
			contents = []*models.Content{}
		}
		project.Contents = contents
	}

	return projects, nil
}

// Get returns one of the user's projects with its contents.
func (s *projectService) Get(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	project, err := s.projectRepo.GetOwned(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	contents, err := s.contentRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if contents == nil {
		contents = []*models.Content{}
	}
	project.Contents = contents

	return project, nil
}

// Delete removes a project and, via cascade, its contents and history.
func (s *projectService) Delete(ctx context.Context, userID, projectID int64) error {
	return s.projectRepo.Delete(ctx, projectID, userID)
}

// Reorder recomputes section_order from the supplied id list.
func (s *projectService) Reorder(ctx context.Context, userID, projectID int64, orderedContentIDs []int64) error {
	if _, err := s.projectRepo.GetOwned(ctx, projectID, userID); err != nil {
		return err
	}

	contents, err := s.contentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	if len(contents) == 0 {
		return nil
	}

	inProject := make(map[int64]bool, len(contents))
	for _, content := range contents {
		inProject[content.ID] = true
	}

	orders := make(map[int64]int, len(contents))
	next := 0
	for _, id := range orderedContentIDs {
		// Ids outside the project are silently ignored
		if !inProject[id] {
			continue
		}
		if _, seen := orders[id]; seen {
			continue
		}
		orders[id] = next
		next++
	}

	// Contents omitted from the request keep their previous relative
	// order behind the supplied ones, so orders stay dense 0..N-1.
	for _, content := range contents {
		if _, assigned := orders[content.ID]; !assigned {
			orders[content.ID] = next
			next++
		}
	}

	if err := s.contentRepo.UpdateOrders(ctx, projectID, orders); err != nil {
		return err
	}

	s.logger.Debug("Reordered project contents",
		zap.Int64("project_id", projectID),
		zap.Int("count", len(orders)))

	return nil
}

// CreateContent appends a content section at the next free order.
func (s *projectService) CreateContent(ctx context.Context, userID, projectID int64, title, text string, metadata models.JSONBMap) (*models.Content, error) {
	if _, err := s.projectRepo.GetOwned(ctx, projectID, userID); err != nil {
		return nil, err
	}

	nextOrder, err := s.contentRepo.NextOrder(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if metadata == nil {
		metadata = models.JSONBMap{}
	}

	content := &models.Content{
		ProjectID:    projectID,
		SectionOrder: nextOrder,
		Title:        title,
		ContentText:  text,
		Metadata:     metadata,
	}

	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}

	return content, nil
}

// DeleteContent removes a content section from one of the user's projects.
func (s *projectService) DeleteContent(ctx context.Context, userID, projectID, contentID int64) error {
	if _, err := s.projectRepo.GetOwned(ctx, projectID, userID); err != nil {
		return err
	}

	return s.contentRepo.Delete(ctx, contentID, projectID)
}

// SetFeedback stores a feedback tag. The value is an open string; the
// conventional values are models.FeedbackLike and models.FeedbackDislike.
func (s *projectService) SetFeedback(ctx context.Context, userID, projectID, contentID int64, feedback string) error {
	if _, err := s.projectRepo.GetOwned(ctx, projectID, userID); err != nil {
		return err
	}

	return s.contentRepo.SetFeedback(ctx, contentID, projectID, feedback)
}

// SetNotes stores free-text user notes.
func (s *projectService) SetNotes(ctx context.Context, userID, projectID, contentID int64, notes string) error {
	if _, err := s.projectRepo.GetOwned(ctx, projectID, userID); err != nil {
		return err
	}

	return s.contentRepo.SetNotes(ctx, contentID, projectID, notes)
}

// ContentHistory returns a content section's refinement audit trail.
func (s *projectService) ContentHistory(ctx context.Context, userID, projectID, contentID int64) ([]*models.RefinementHistory, error) {
	if _, err := s.projectRepo.GetOwned(ctx, projectID, userID); err != nil {
		return nil, err
	}

	if _, err := s.contentRepo.GetInProject(ctx, contentID, projectID); err != nil {
		return nil, err
	}

	return s.refinementRepo.ListByContent(ctx, contentID)
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
