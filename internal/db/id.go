package db

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a new record id. Ids are UUIDv7: a millisecond timestamp,
// a monotonic sequence for ids minted within the same millisecond, and
// random bits. String order follows creation order within a process.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate record id: %w", err)
	}
	return id.String(), nil
}
