package conversation

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Mode string

const (
	ModeChat     Mode = "chat"
	ModeAnalysis Mode = "analysis"
)

func (m Mode) Valid() bool {
	return m == ModeChat || m == ModeAnalysis
}

// TimelineEntry is one timestamped observation from detailed analysis.
type TimelineEntry struct {
	TimestampSeconds float64 `json:"timestamp_seconds"`
	Label            string  `json:"label"`
	Description      string  `json:"description"`
}

// AnalysisResult holds the structured output of an analysis turn. Warnings
// record rows that were dropped during parsing; a result with warnings is
// still a usable result, not an error.
type AnalysisResult struct {
	Summary  string          `json:"summary,omitempty"`
	Timeline []TimelineEntry `json:"timeline,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Turn is one contribution to the conversation. Turns are immutable once
// appended; Analysis is set only on assistant turns in analysis mode.
type Turn struct {
	SequenceNo int             `json:"sequence_no"`
	Role       Role            `json:"role"`
	Mode       Mode            `json:"mode"`
	Content    string          `json:"content"`
	Analysis   *AnalysisResult `json:"analysis,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
