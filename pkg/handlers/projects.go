package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/auth"
	"github.com/draftforge/draft-engine/pkg/models"
	"github.com/draftforge/draft-engine/pkg/services"
)

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Title   string `json:"title"`
	DocType string `json:"doc_type"`
}

// CreateContentRequest is the request body for adding a content section.
// SectionOrder is accepted for wire compatibility but ignored; new
// sections are always appended at the next free order.
type CreateContentRequest struct {
	SectionOrder int             `json:"section_order"`
	Title        string          `json:"title"`
	ContentText  string          `json:"content_text"`
	Metadata     models.JSONBMap `json:"metadata_props"`
}

// ReorderRequest is the request body for reordering a project's contents.
type ReorderRequest struct {
	OrderedContentIDs []int64 `json:"ordered_content_ids"`
}

// FeedbackRequest is the request body for content feedback.
type FeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// NotesRequest is the request body for content notes.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// OKResponse acknowledges a mutation with no payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ProjectsHandler handles project and content CRUD requests.
type ProjectsHandler struct {
	projectService services.ProjectService
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projectService services.ProjectService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /projects/{$}", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("POST /projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /projects/{$}", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /projects", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /projects/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("DELETE /projects/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("PUT /projects/{id}/reorder", authMiddleware.RequireAuth(h.Reorder))
	mux.HandleFunc("POST /projects/{id}/content", authMiddleware.RequireAuth(h.CreateContent))
	mux.HandleFunc("DELETE /projects/{id}/content/{content_id}", authMiddleware.RequireAuth(h.DeleteContent))
	mux.HandleFunc("POST /projects/{id}/content/{content_id}/feedback", authMiddleware.RequireAuth(h.SetFeedback))
	mux.HandleFunc("POST /projects/{id}/content/{content_id}/notes", authMiddleware.RequireAuth(h.SetNotes))
	mux.HandleFunc("GET /projects/{id}/content/{content_id}/history", authMiddleware.RequireAuth(h.ContentHistory))
}

// Create handles POST /projects/.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	project, err := h.projectService.Create(r.Context(), user.ID, req.Title, req.DocType)
	if err != nil {
		serviceError(w, h.logger, err, "Project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /projects/.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)

	projects, err := h.projectService.List(r.Context(), user.ID, skip, limit)
	if err != nil {
		serviceError(w, h.logger, err, "Project")
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	if err := WriteJSON(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), user.ID, projectID)
	if err != nil {
		serviceError(w, h.logger, err, "Project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /projects/{id}.
// Contents and refinement history are removed by cascade.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), user.ID, projectID); err != nil {
		serviceError(w, h.logger, err, "Project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, OKResponse{OK: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Reorder handles PUT /projects/{id}/reorder.
func (h *ProjectsHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.projectService.Reorder(r.Context(), user.ID, projectID, req.OrderedContentIDs); err != nil {
		serviceError(w, h.logger, err, "Project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, OKResponse{OK: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateContent handles POST /projects/{id}/content.
func (h *ProjectsHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	content, err := h.projectService.CreateContent(r.Context(), user.ID, projectID, req.Title, req.ContentText, req.Metadata)
	if err != nil {
		serviceError(w, h.logger, err, "Project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, content); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteContent handles DELETE /projects/{id}/content/{content_id}.
func (h *ProjectsHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	contentID, ok := pathID(w, r, "content_id", h.logger)
	if !ok {
		return
	}

	if err := h.projectService.DeleteContent(r.Context(), user.ID, projectID, contentID); err != nil {
		serviceError(w, h.logger, err, "Content")
		return
	}

	if err := WriteJSON(w, http.StatusOK, OKResponse{OK: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetFeedback handles POST /projects/{id}/content/{content_id}/feedback.
func (h *ProjectsHandler) SetFeedback(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	contentID, ok := pathID(w, r, "content_id", h.logger)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.projectService.SetFeedback(r.Context(), user.ID, projectID, contentID, req.Feedback); err != nil {
		serviceError(w, h.logger, err, "Content")
		return
	}

	if err := WriteJSON(w, http.StatusOK, OKResponse{OK: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetNotes handles POST /projects/{id}/content/{content_id}/notes.
func (h *ProjectsHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	contentID, ok := pathID(w, r, "content_id", h.logger)
	if !ok {
		return
	}

	var req NotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.projectService.SetNotes(r.Context(), user.ID, projectID, contentID, req.Notes); err != nil {
		serviceError(w, h.logger, err, "Content")
		return
	}

	if err := WriteJSON(w, http.StatusOK, OKResponse{OK: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ContentHistory handles GET /projects/{id}/content/{content_id}/history.
func (h *ProjectsHandler) ContentHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}
	contentID, ok := pathID(w, r, "content_id", h.logger)
	if !ok {
		return
	}

	history, err := h.projectService.ContentHistory(r.Context(), user.ID, projectID, contentID)
	if err != nil {
		serviceError(w, h.logger, err, "Content")
		return
	}
	if history == nil {
		history = []*models.RefinementHistory{}
	}

	if err := WriteJSON(w, http.StatusOK, history); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
