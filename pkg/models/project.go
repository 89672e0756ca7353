package models

import "time"

// Project is a user-owned document or slide-deck generation task.
type Project struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Title     string     `json:"title"`
	DocType   string     `json:"doc_type"`
	CreatedAt time.Time  `json:"created_at"`
	Contents  []*Content `json:"contents"`
}

// DocType constants for the supported document kinds.
const (
	DocTypeDocx = "docx"
	DocTypePptx = "pptx"
)

// ValidDocTypes contains all valid document type values.
var ValidDocTypes = []string{DocTypeDocx, DocTypePptx}

// IsValidDocType checks if the given doc type is valid.
func IsValidDocType(docType string) bool {
	for _, t := range ValidDocTypes {
		if t == docType {
			return true
		}
	}
	return false
}
