package session

import (
	"time"

	"github.com/tobi-oke/clipchat-backend/internal/conversation"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// Record is the ephemeral redis mirror of a live session, used for listing
// and operational visibility. Conversation history never leaves process
// memory; the record carries counters only.
type Record struct {
	ID           string            `json:"id"`
	Status       Status            `json:"status"`
	Mode         conversation.Mode `json:"mode"`
	VideoHandle  string            `json:"video_handle,omitempty"`
	TurnCount    int               `json:"turn_count"`
	StartedAt    time.Time         `json:"started_at"`
	LastActiveAt time.Time         `json:"last_active_at"`
}

func (r *Record) RedisKey() string {
	return "chat:session:" + r.ID
}
