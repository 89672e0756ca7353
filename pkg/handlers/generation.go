package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/auth"
	"github.com/draftforge/draft-engine/pkg/services"
)

// OutlineGenerationRequest is the request body for outline generation.
type OutlineGenerationRequest struct {
	ProjectID    int64    `json:"project_id"`
	Topic        string   `json:"topic"`
	NumSlides    int      `json:"num_slides"`
	CustomTitles []string `json:"custom_titles"`
}

// RefineRequest is the request body for content refinement.
type RefineRequest struct {
	ContentID int64  `json:"content_id"`
	Prompt    string `json:"prompt"`
}

// GenerationHandler handles model-backed generation requests.
type GenerationHandler struct {
	generationService services.GenerationService
	logger            *zap.Logger
}

// NewGenerationHandler creates a new generation handler.
func NewGenerationHandler(generationService services.GenerationService, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		logger:            logger,
	}
}

// RegisterRoutes registers the generation handler's routes on the given mux.
func (h *GenerationHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /generate/outline", authMiddleware.RequireAuth(h.GenerateOutline))
	mux.HandleFunc("POST /generate/content", authMiddleware.RequireAuth(h.GenerateContent))
	mux.HandleFunc("POST /generate/refine", authMiddleware.RequireAuth(h.Refine))
}

// GenerateOutline handles POST /generate/outline.
func (h *GenerationHandler) GenerateOutline(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req OutlineGenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	contents, err := h.generationService.GenerateOutline(r.Context(), user.ID, &services.OutlineRequest{
		ProjectID:    req.ProjectID,
		Topic:        req.Topic,
		NumSlides:    req.NumSlides,
		CustomTitles: req.CustomTitles,
	})
	if err != nil {
		h.generationError(w, err, "Project")
		return
	}

	if err := WriteJSON(w, http.StatusOK, contents); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GenerateContent handles POST /generate/content?project_id=&content_id=.
func (h *GenerationHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := queryID(w, r, "project_id", h.logger)
	if !ok {
		return
	}
	contentID, ok := queryID(w, r, "content_id", h.logger)
	if !ok {
		return
	}

	content, err := h.generationService.GenerateSection(r.Context(), user.ID, projectID, contentID)
	if err != nil {
		h.generationError(w, err, "Content")
		return
	}

	if err := WriteJSON(w, http.StatusOK, content); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Refine handles POST /generate/refine.
func (h *GenerationHandler) Refine(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req RefineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.Prompt == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Refinement prompt is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	content, err := h.generationService.Refine(r.Context(), user.ID, req.ContentID, req.Prompt)
	if err != nil {
		h.generationError(w, err, "Content")
		return
	}

	if err := WriteJSON(w, http.StatusOK, content); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// generationError maps generation failures to HTTP responses. Ownership
// and validation failures reuse the shared mapping; anything else is a
// model-call failure whose message is surfaced to the caller.
func (h *GenerationHandler) generationError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrInvalidDocType),
		errors.Is(err, apperrors.ErrModelUnavailable):
		serviceError(w, h.logger, err, resource)
	default:
		h.logger.Error("Generation failed", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "generation_failed",
			fmt.Sprintf("AI Generation failed: %v", err)); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}
