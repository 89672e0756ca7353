package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/models"
	"github.com/draftforge/draft-engine/pkg/services"
)

func newProjectsMux(t *testing.T, svc services.ProjectService) *http.ServeMux {
	t.Helper()
	_, mw := newTestAuth(t)
	mux := http.NewServeMux()
	NewProjectsHandler(svc, zap.NewNop()).RegisterRoutes(mux, mw)
	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	authorize(r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func TestProjectsHandler_Create(t *testing.T) {
	svc := &mockProjectService{
		CreateFunc: func(_ context.Context, userID int64, title, docType string) (*models.Project, error) {
			if userID != testUser.ID {
				t.Errorf("expected user %d, got %d", testUser.ID, userID)
			}
			return &models.Project{ID: 5, UserID: userID, Title: title, DocType: docType, Contents: []*models.Content{}}, nil
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "POST", "/projects", `{"title": "Deck", "doc_type": "pptx"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var project models.Project
	if err := json.Unmarshal(w.Body.Bytes(), &project); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if project.ID != 5 || project.Title != "Deck" || project.DocType != "pptx" {
		t.Errorf("unexpected project %+v", project)
	}
}

func TestProjectsHandler_Create_InvalidDocType(t *testing.T) {
	svc := &mockProjectService{
		CreateFunc: func(_ context.Context, _ int64, _, docType string) (*models.Project, error) {
			return nil, apperrors.ErrInvalidDocType
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "POST", "/projects", `{"title": "Deck", "doc_type": "spreadsheet"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestProjectsHandler_Create_Unauthenticated(t *testing.T) {
	svc := &mockProjectService{
		CreateFunc: func(_ context.Context, _ int64, _, _ string) (*models.Project, error) {
			t.Error("service should not be called without auth")
			return nil, nil
		},
	}
	mux := newProjectsMux(t, svc)

	r := httptest.NewRequest("POST", "/projects", strings.NewReader(`{"title": "x", "doc_type": "docx"}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestProjectsHandler_List_PassesPagination(t *testing.T) {
	var gotOffset, gotLimit int
	svc := &mockProjectService{
		ListFunc: func(_ context.Context, _ int64, offset, limit int) ([]*models.Project, error) {
			gotOffset, gotLimit = offset, limit
			return nil, nil
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "GET", "/projects?skip=10&limit=20", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotOffset != 10 || gotLimit != 20 {
		t.Errorf("expected offset 10 limit 20, got %d %d", gotOffset, gotLimit)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestProjectsHandler_Get_NotFound(t *testing.T) {
	svc := &mockProjectService{
		GetFunc: func(_ context.Context, _, _ int64) (*models.Project, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "GET", "/projects/99", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestProjectsHandler_Get_InvalidID(t *testing.T) {
	svc := &mockProjectService{
		GetFunc: func(_ context.Context, _, _ int64) (*models.Project, error) {
			t.Error("service should not be called with malformed id")
			return nil, nil
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "GET", "/projects/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestProjectsHandler_Delete(t *testing.T) {
	var deleted int64
	svc := &mockProjectService{
		DeleteFunc: func(_ context.Context, _, projectID int64) error {
			deleted = projectID
			return nil
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "DELETE", "/projects/7", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if deleted != 7 {
		t.Errorf("expected project 7 deleted, got %d", deleted)
	}

	var resp OKResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || !resp.OK {
		t.Errorf("expected {\"ok\": true}, got %s", w.Body.String())
	}
}

func TestProjectsHandler_Reorder(t *testing.T) {
	var gotIDs []int64
	svc := &mockProjectService{
		ReorderFunc: func(_ context.Context, _, _ int64, orderedContentIDs []int64) error {
			gotIDs = orderedContentIDs
			return nil
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "PUT", "/projects/3/reorder", `{"ordered_content_ids": [9, 7, 8]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(gotIDs) != 3 || gotIDs[0] != 9 || gotIDs[1] != 7 || gotIDs[2] != 8 {
		t.Errorf("unexpected ids %v", gotIDs)
	}
}

func TestProjectsHandler_CreateContent(t *testing.T) {
	svc := &mockProjectService{
		CreateContentFunc: func(_ context.Context, _, projectID int64, title, text string, metadata models.JSONBMap) (*models.Content, error) {
			return &models.Content{ID: 11, ProjectID: projectID, SectionOrder: 2, Title: title, ContentText: text, Metadata: metadata}, nil
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "POST", "/projects/3/content",
		`{"title": "Summary", "content_text": "", "metadata_props": {"layout": "title-only"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var content models.Content
	if err := json.Unmarshal(w.Body.Bytes(), &content); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if content.ID != 11 || content.Title != "Summary" {
		t.Errorf("unexpected content %+v", content)
	}
	if content.Metadata["layout"] != "title-only" {
		t.Errorf("metadata not carried through: %v", content.Metadata)
	}
}

func TestProjectsHandler_SetFeedback(t *testing.T) {
	var gotFeedback string
	svc := &mockProjectService{
		SetFeedbackFunc: func(_ context.Context, _, _, _ int64, feedback string) error {
			gotFeedback = feedback
			return nil
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "POST", "/projects/3/content/11/feedback", `{"feedback": "like"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotFeedback != "like" {
		t.Errorf("expected feedback like, got %q", gotFeedback)
	}
}

func TestProjectsHandler_SetNotes_ContentNotFound(t *testing.T) {
	svc := &mockProjectService{
		SetNotesFunc: func(_ context.Context, _, _, _ int64, _ string) error {
			return apperrors.ErrNotFound
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "POST", "/projects/3/content/99/notes", `{"notes": "tighten this"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestProjectsHandler_ContentHistory(t *testing.T) {
	svc := &mockProjectService{
		ContentHistoryFunc: func(_ context.Context, _, _, contentID int64) ([]*models.RefinementHistory, error) {
			return []*models.RefinementHistory{
				{ID: 1, ContentID: contentID, Prompt: "shorter", OriginalText: "a", RefinedText: "b"},
			}, nil
		},
	}
	mux := newProjectsMux(t, svc)

	w := doRequest(mux, "GET", "/projects/3/content/11/history", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var history []*models.RefinementHistory
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(history) != 1 || history[0].Prompt != "shorter" {
		t.Errorf("unexpected history %+v", history)
	}
}
