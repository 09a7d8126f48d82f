package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GenerationRecord is an immutable record of one completed generation.
// Created exactly once, only after a successful provider response; never
// mutated or deleted.
type GenerationRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Feature   Feature
	Input     json.RawMessage
	Output    json.RawMessage
	CreatedAt time.Time
}

// MaxHistoryPageSize caps a single history page.
const MaxHistoryPageSize = 50

// DefaultHistoryPageSize is used when the caller does not specify a limit.
const DefaultHistoryPageSize = 20

// HistoryPage is one cursor-paginated slice of a user's generation history,
// newest first. NextCursor is the id of the last record when more rows exist.
type HistoryPage struct {
	Records    []GenerationRecord
	NextCursor *uuid.UUID
}

// NormalizePageSize clamps a requested page size into [1, MaxHistoryPageSize],
// substituting the default for zero or negative values.
func NormalizePageSize(limit int) int {
	if limit <= 0 {
		return DefaultHistoryPageSize
	}
	if limit > MaxHistoryPageSize {
		return MaxHistoryPageSize
	}
	return limit
}
