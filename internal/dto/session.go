package dto

import "time"

type CreateSessionResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

type SessionResponse struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	Mode      string         `json:"mode"`
	TurnCount int            `json:"turn_count"`
	Video     *VideoResponse `json:"video,omitempty"`
}

type MessageRequest struct {
	Mode    string          `json:"mode"`
	Prompt  string          `json:"prompt"`
	Options *AnalysisToggle `json:"options,omitempty"`
}

type AnalysisToggle struct {
	Summary  bool `json:"summary"`
	Timeline bool `json:"timeline"`
}

type TimelineEntryResponse struct {
	TimestampSeconds float64 `json:"timestamp_seconds"`
	Label            string  `json:"label"`
	Description      string  `json:"description"`
}

type AnalysisResponse struct {
	Summary  string                  `json:"summary,omitempty"`
	Timeline []TimelineEntryResponse `json:"timeline,omitempty"`
	Warnings []string                `json:"warnings,omitempty"`
}

type TurnResponse struct {
	SequenceNo int               `json:"sequence_no"`
	Role       string            `json:"role"`
	Mode       string            `json:"mode"`
	Content    string            `json:"content"`
	Analysis   *AnalysisResponse `json:"analysis,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Turns     []TurnResponse `json:"turns"`
}
