package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Content is one ordered section (docx) or slide (pptx) of a project.
// SectionOrder is zero-based and kept dense within a project.
type Content struct {
	ID           int64    `json:"id"`
	ProjectID    int64    `json:"project_id"`
	SectionOrder int      `json:"section_order"`
	Title        string   `json:"title"`
	ContentText  string   `json:"content_text"`
	Metadata     JSONBMap `json:"metadata_props"`
	Feedback     *string  `json:"feedback,omitempty"`
	UserNotes    *string  `json:"user_notes,omitempty"`
}

// Feedback values clients conventionally send. Feedback is stored as an
// open string, these are not enforced server-side.
const (
	FeedbackLike    = "like"
	FeedbackDislike = "dislike"
)

// JSONBMap is a map type that handles PostgreSQL JSONB serialization.
type JSONBMap map[string]interface{}

// Value implements driver.Valuer for database serialization.
func (j JSONBMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for database deserialization.
func (j *JSONBMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONBMap", value)
	}

	return json.Unmarshal(bytes, j)
}
