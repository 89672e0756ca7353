package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/auth"
	"github.com/draftforge/draft-engine/pkg/models"
)

// requireUser extracts the resolved user injected by the auth middleware.
// Writes a 401 response and returns false if absent.
func requireUser(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (*models.User, bool) {
	user, ok := auth.GetUser(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing authentication"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return nil, false
	}
	return user, true
}

// pathID parses a numeric path value. Writes a 400 response and returns
// false on a malformed value.
func pathID(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid "+name+" format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// queryID parses a numeric query parameter. Writes a 400 response and
// returns false on a missing or malformed value.
func queryID(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_id", "Invalid "+name+" format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// queryInt parses an optional numeric query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

// serviceError maps service-layer errors to HTTP responses.
// resource names the entity for not-found messages, e.g. "Project".
func serviceError(w http.ResponseWriter, logger *zap.Logger, err error, resource string) {
	var status int
	var code, message string

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", resource+" not found"
	case errors.Is(err, apperrors.ErrForbidden):
		status, code, message = http.StatusForbidden, "forbidden", "Not authorized"
	case errors.Is(err, apperrors.ErrInvalidDocType):
		status, code, message = http.StatusBadRequest, "invalid_doc_type", err.Error()
	case errors.Is(err, apperrors.ErrModelUnavailable):
		status, code, message = http.StatusServiceUnavailable, "model_unavailable", "Text-generation model not configured or unavailable"
	default:
		logger.Error("Request failed", zap.String("resource", resource), zap.Error(err))
		status, code, message = http.StatusInternalServerError, "internal_error", "Internal server error"
	}

	if werr := ErrorResponse(w, status, code, message); werr != nil {
		logger.Error("Failed to write error response", zap.Error(werr))
	}
}
