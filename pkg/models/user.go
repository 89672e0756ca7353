// Package models contains domain types for draft-engine.
package models

import "time"

// User is a local account mapped to an identity-provider subject.
// Created lazily on the first successful authentication.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	ProviderUID string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
