package dto

import "time"

type VideoResponse struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename,omitempty"`
	Format          string    `json:"format"`
	DurationSeconds float64   `json:"duration_seconds"`
	SizeBytes       int64     `json:"size_bytes"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

type UploadResponse struct {
	SessionID string        `json:"session_id"`
	Video     VideoResponse `json:"video"`
	// uploading a new video always starts a fresh conversation
	HistoryCleared bool `json:"history_cleared"`
}
