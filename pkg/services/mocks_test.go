package services

import (
	"context"
	"sort"
	"time"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/models"
	"github.com/draftforge/draft-engine/pkg/repositories"
)

// fakeProjectRepo is an in-memory ProjectRepository for unit tests.
type fakeProjectRepo struct {
	projects map[int64]*models.Project
	nextID   int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[int64]*models.Project), nextID: 1}
}

func (f *fakeProjectRepo) Create(_ context.Context, project *models.Project) error {
	project.ID = f.nextID
	f.nextID++
	project.CreatedAt = time.Now()
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) GetOwned(_ context.Context, id, userID int64) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok || project.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

func (f *fakeProjectRepo) ListByUser(_ context.Context, userID int64, offset, limit int) ([]*models.Project, error) {
	var owned []*models.Project
	for _, project := range f.projects {
		if project.UserID == userID {
			owned = append(owned, project)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID > owned[j].ID })
	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id, userID int64) error {
	project, ok := f.projects[id]
	if !ok || project.UserID != userID {
		return apperrors.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}

// fakeContentRepo is an in-memory ContentRepository for unit tests.
type fakeContentRepo struct {
	contents map[int64]*models.Content
	nextID   int64

	createBatchErr  error
	updateOrdersErr error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{contents: make(map[int64]*models.Content), nextID: 1}
}

func (f *fakeContentRepo) Create(_ context.Context, content *models.Content) error {
	content.ID = f.nextID
	f.nextID++
	f.contents[content.ID] = content
	return nil
}

func (f *fakeContentRepo) CreateBatch(_ context.Context, contents []*models.Content) error {
	if f.createBatchErr != nil {
		return f.createBatchErr
	}
	for _, content := range contents {
		content.ID = f.nextID
		f.nextID++
		f.contents[content.ID] = content
	}
	return nil
}

func (f *fakeContentRepo) GetInProject(_ context.Context, id, projectID int64) (*models.Content, error) {
	content, ok := f.contents[id]
	if !ok || content.ProjectID != projectID {
		return nil, apperrors.ErrNotFound
	}
	return content, nil
}

func (f *fakeContentRepo) Get(_ context.Context, id int64) (*models.Content, error) {
	content, ok := f.contents[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return content, nil
}

func (f *fakeContentRepo) ListByProject(_ context.Context, projectID int64) ([]*models.Content, error) {
	var contents []*models.Content
	for _, content := range f.contents {
		if content.ProjectID == projectID {
			contents = append(contents, content)
		}
	}
	sort.Slice(contents, func(i, j int) bool {
		if contents[i].SectionOrder != contents[j].SectionOrder {
			return contents[i].SectionOrder < contents[j].SectionOrder
		}
		return contents[i].ID < contents[j].ID
	})
	return contents, nil
}

func (f *fakeContentRepo) NextOrder(_ context.Context, projectID int64) (int, error) {
	next := 0
	for _, content := range f.contents {
		if content.ProjectID == projectID && content.SectionOrder+1 > next {
			next = content.SectionOrder + 1
		}
	}
	return next, nil
}

func (f *fakeContentRepo) Delete(_ context.Context, id, projectID int64) error {
	content, ok := f.contents[id]
	if !ok || content.ProjectID != projectID {
		return apperrors.ErrNotFound
	}
	delete(f.contents, id)
	return nil
}

func (f *fakeContentRepo) UpdateOrders(_ context.Context, projectID int64, orders map[int64]int) error {
	if f.updateOrdersErr != nil {
		return f.updateOrdersErr
	}
	for id, order := range orders {
		if content, ok := f.contents[id]; ok && content.ProjectID == projectID {
			content.SectionOrder = order
		}
	}
	return nil
}

func (f *fakeContentRepo) UpdateText(_ context.Context, id int64, text string) error {
	content, ok := f.contents[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	content.ContentText = text
	return nil
}

func (f *fakeContentRepo) SetFeedback(_ context.Context, id, projectID int64, feedback string) error {
	content, ok := f.contents[id]
	if !ok || content.ProjectID != projectID {
		return apperrors.ErrNotFound
	}
	content.Feedback = &feedback
	return nil
}

func (f *fakeContentRepo) SetNotes(_ context.Context, id, projectID int64, notes string) error {
	content, ok := f.contents[id]
	if !ok || content.ProjectID != projectID {
		return apperrors.ErrNotFound
	}
	content.UserNotes = &notes
	return nil
}

// fakeRefinementRepo is an in-memory RefinementRepository. It shares the
// content store so ApplyRefinement can update the body like the real
// repository does.
type fakeRefinementRepo struct {
	contents *fakeContentRepo
	history  []*models.RefinementHistory
	nextID   int64
}

func newFakeRefinementRepo(contents *fakeContentRepo) *fakeRefinementRepo {
	return &fakeRefinementRepo{contents: contents, nextID: 1}
}

func (f *fakeRefinementRepo) ApplyRefinement(_ context.Context, contentID int64, instruction, originalText, refinedText string) (*models.RefinementHistory, error) {
	content, ok := f.contents.contents[contentID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	row := &models.RefinementHistory{
		ID:           f.nextID,
		ContentID:    contentID,
		Prompt:       instruction,
		OriginalText: originalText,
		RefinedText:  refinedText,
		Timestamp:    time.Now(),
	}
	f.nextID++
	f.history = append(f.history, row)
	content.ContentText = refinedText
	return row, nil
}

func (f *fakeRefinementRepo) ListByContent(_ context.Context, contentID int64) ([]*models.RefinementHistory, error) {
	var rows []*models.RefinementHistory
	for _, row := range f.history {
		if row.ContentID == contentID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Compile-time interface checks for the fakes.
var (
	_ repositories.ProjectRepository    = (*fakeProjectRepo)(nil)
	_ repositories.ContentRepository    = (*fakeContentRepo)(nil)
	_ repositories.RefinementRepository = (*fakeRefinementRepo)(nil)
)
