package models

import "time"

// RefinementHistory is an immutable audit record of one text rewrite.
// Rows are append-only; they are never updated after creation.
type RefinementHistory struct {
	ID           int64     `json:"id"`
	ContentID    int64     `json:"content_id"`
	Prompt       string    `json:"prompt"`
	OriginalText string    `json:"original_text"`
	RefinedText  string    `json:"refined_text"`
	Timestamp    time.Time `json:"timestamp"`
}
