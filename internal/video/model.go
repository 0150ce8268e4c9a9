package video

import (
	"strings"
	"time"
)

type Format string

const (
	FormatMP4 Format = "mp4"
	FormatMOV Format = "mov"
	FormatAVI Format = "avi"
)

// ParseFormat normalizes a declared format or filename extension.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch Format(s) {
	case FormatMP4, FormatMOV, FormatAVI:
		return Format(s), true
	}
	return "", false
}

// Artifact is the validated, registered representation of one uploaded
// video. Artifacts are replaced, never mutated: a new upload produces a new
// artifact with a fresh handle.
type Artifact struct {
	ID              string    `json:"id"`
	Handle          string    `json:"handle"`
	Filename        string    `json:"filename,omitempty"`
	Format          Format    `json:"format"`
	DurationSeconds float64   `json:"duration_seconds"`
	SizeBytes       int64     `json:"size_bytes"`
	UploadedAt      time.Time `json:"uploaded_at"`
}
