package handlers

import (
	"time"

	"reelarchitect/models"
)

// ErrorResponse defines a common structure for error responses.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// GenerateSuccessResponse is returned by a successful generation.
type GenerateSuccessResponse struct {
	Status string                  `json:"status"`
	Data   models.GenerationResult `json:"data"`
}

// HistoryListSuccessResponse carries the newest-first history list.
type HistoryListSuccessResponse struct {
	Status string                `json:"status"`
	Data   []models.HistoryEntry `json:"data"`
}

// HistoryEntrySuccessResponse carries one loaded entry.
type HistoryEntrySuccessResponse struct {
	Status string              `json:"status"`
	Data   models.HistoryEntry `json:"data"`
}

// SessionInfo describes the caller's session.
type SessionInfo struct {
	State     string `json:"state"`
	UserID    string `json:"user_id,omitempty"`
	Loading   bool   `json:"loading"`
	AuthError string `json:"auth_error,omitempty"`
}

type SessionSuccessResponse struct {
	Status string      `json:"status"`
	Data   SessionInfo `json:"data"`
}

// CopyState is the set of copy indicators currently showing.
type CopyState struct {
	Key    string          `json:"key,omitempty"`
	Until  *time.Time      `json:"until,omitempty"`
	Active map[string]bool `json:"active"`
}

type CopySuccessResponse struct {
	Status string    `json:"status"`
	Data   CopyState `json:"data"`
}
