package domain

import "github.com/google/uuid"

// NewRunID returns a fresh identifier for a run. Reset starts a new run.
func NewRunID() string {
	return uuid.NewString()
}
