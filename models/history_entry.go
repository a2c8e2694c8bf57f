package models

import "time"

// HistoryEntry is one saved generation. ID and CreatedAt are assigned by the store.
// Entries are never updated in place.
type HistoryEntry struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Result      GenerationResult `json:"result"`
	CreatedAt   *time.Time       `json:"created_at,omitempty"` // Nullable until the store stamps it
}

// Request returns the input the entry was generated from.
func (e HistoryEntry) Request() GenerationRequest {
	return GenerationRequest{Title: e.Title, Description: e.Description}
}

// CreatedAtOrZero returns the creation time, or the zero time when the entry has none.
func (e HistoryEntry) CreatedAtOrZero() time.Time {
	if e.CreatedAt == nil {
		return time.Time{}
	}
	return *e.CreatedAt
}
