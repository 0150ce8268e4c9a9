package vision

import (
	"context"
	"time"
)

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// HistoryTurn is one prior exchange rendered into the model prompt.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Payload is the fully assembled request for one turn: the active video's
// handle, the windowed history, the mode's instruction template and the new
// prompt. The client resolves the handle to stored segments itself.
type Payload struct {
	VideoHandle     string
	DurationSeconds float64
	Instruction     string
	History         []HistoryTurn
	Prompt          string
}

// Client is the external visual-understanding model. One response per
// request; no streaming at this layer.
type Client interface {
	Generate(ctx context.Context, p *Payload) (string, error)
	IsAvailable(ctx context.Context) bool
}

// SegmentSource resolves a video handle to its stored payload segments.
type SegmentSource interface {
	Get(ctx context.Context, handle string) ([][]byte, error)
}
