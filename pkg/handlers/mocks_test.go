package handlers

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/auth"
	"github.com/draftforge/draft-engine/pkg/models"
	"github.com/draftforge/draft-engine/pkg/services"
	"github.com/draftforge/draft-engine/pkg/testhelpers"
)

// testUser is the user resolved for every authenticated test request.
var testUser = &models.User{ID: 1, Email: "user@example.com", ProviderUID: "uid-1"}

// stubResolver returns a fixed user for any claims.
type stubResolver struct {
	user *models.User
}

func (s *stubResolver) ResolveFromClaims(_ context.Context, _ *auth.Claims) (*models.User, error) {
	return s.user, nil
}

// newTestAuth builds auth plumbing with signature verification disabled,
// so handler tests can use unsigned tokens.
func newTestAuth(t *testing.T) (auth.AuthService, *auth.Middleware) {
	t.Helper()

	verifier, err := auth.NewJWKSVerifier(&auth.JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("failed to create verifier: %v", err)
	}
	authService := auth.NewAuthService(verifier, zap.NewNop())
	mw := auth.NewMiddleware(authService, &stubResolver{user: testUser}, zap.NewNop())
	return authService, mw
}

// authorize sets a valid unsigned bearer token on the request.
func authorize(r *http.Request) {
	r.Header.Set("Authorization", testhelpers.GenerateTestJWTWithBearer("uid-1", "user@example.com"))
}

// mockProjectService implements services.ProjectService with function fields.
type mockProjectService struct {
	CreateFunc         func(ctx context.Context, userID int64, title, docType string) (*models.Project, error)
	ListFunc           func(ctx context.Context, userID int64, offset, limit int) ([]*models.Project, error)
	GetFunc            func(ctx context.Context, userID, projectID int64) (*models.Project, error)
	DeleteFunc         func(ctx context.Context, userID, projectID int64) error
	ReorderFunc        func(ctx context.Context, userID, projectID int64, orderedContentIDs []int64) error
	CreateContentFunc  func(ctx context.Context, userID, projectID int64, title, text string, metadata models.JSONBMap) (*models.Content, error)
	DeleteContentFunc  func(ctx context.Context, userID, projectID, contentID int64) error
	SetFeedbackFunc    func(ctx context.Context, userID, projectID, contentID int64, feedback string) error
	SetNotesFunc       func(ctx context.Context, userID, projectID, contentID int64, notes string) error
	ContentHistoryFunc func(ctx context.Context, userID, projectID, contentID int64) ([]*models.RefinementHistory, error)
}

func (m *mockProjectService) Create(ctx context.Context, userID int64, title, docType string) (*models.Project, error) {
	return m.CreateFunc(ctx, userID, title, docType)
}

func (m *mockProjectService) List(ctx context.Context, userID int64, offset, limit int) ([]*models.Project, error) {
	return m.ListFunc(ctx, userID, offset, limit)
}

func (m *mockProjectService) Get(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	return m.GetFunc(ctx, userID, projectID)
}

func (m *mockProjectService) Delete(ctx context.Context, userID, projectID int64) error {
	return m.DeleteFunc(ctx, userID, projectID)
}

func (m *mockProjectService) Reorder(ctx context.Context, userID, projectID int64, orderedContentIDs []int64) error {
	return m.ReorderFunc(ctx, userID, projectID, orderedContentIDs)
}

func (m *mockProjectService) CreateContent(ctx context.Context, userID, projectID int64, title, text string, metadata models.JSONBMap) (*models.Content, error) {
	return m.CreateContentFunc(ctx, userID, projectID, title, text, metadata)
}

func (m *mockProjectService) DeleteContent(ctx context.Context, userID, projectID, contentID int64) error {
	return m.DeleteContentFunc(ctx, userID, projectID, contentID)
}

func (m *mockProjectService) SetFeedback(ctx context.Context, userID, projectID, contentID int64, feedback string) error {
	return m.SetFeedbackFunc(ctx, userID, projectID, contentID, feedback)
}

func (m *mockProjectService) SetNotes(ctx context.Context, userID, projectID, contentID int64, notes string) error {
	return m.SetNotesFunc(ctx, userID, projectID, contentID, notes)
}

func (m *mockProjectService) ContentHistory(ctx context.Context, userID, projectID, contentID int64) ([]*models.RefinementHistory, error) {
	return m.ContentHistoryFunc(ctx, userID, projectID, contentID)
}

// mockGenerationService implements services.GenerationService with function fields.
type mockGenerationService struct {
	GenerateOutlineFunc func(ctx context.Context, userID int64, req *services.OutlineRequest) ([]*models.Content, error)
	GenerateSectionFunc func(ctx context.Context, userID, projectID, contentID int64) (*models.Content, error)
	RefineFunc          func(ctx context.Context, userID, contentID int64, instruction string) (*models.Content, error)
}

func (m *mockGenerationService) GenerateOutline(ctx context.Context, userID int64, req *services.OutlineRequest) ([]*models.Content, error) {
	return m.GenerateOutlineFunc(ctx, userID, req)
}

func (m *mockGenerationService) GenerateSection(ctx context.Context, userID, projectID, contentID int64) (*models.Content, error) {
	return m.GenerateSectionFunc(ctx, userID, projectID, contentID)
}

func (m *mockGenerationService) Refine(ctx context.Context, userID, contentID int64, instruction string) (*models.Content, error) {
	return m.RefineFunc(ctx, userID, contentID, instruction)
}

// mockUserService implements services.UserService with function fields.
type mockUserService struct {
	ResolveFromClaimsFunc func(ctx context.Context, claims *auth.Claims) (*models.User, error)
	GetByIDFunc           func(ctx context.Context, id int64) (*models.User, error)
}

func (m *mockUserService) ResolveFromClaims(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	return m.ResolveFromClaimsFunc(ctx, claims)
}

func (m *mockUserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

// Compile-time interface checks for the mocks.
var (
	_ services.ProjectService    = (*mockProjectService)(nil)
	_ services.GenerationService = (*mockGenerationService)(nil)
	_ services.UserService       = (*mockUserService)(nil)
)
