package prompt

import (
	"github.com/tobi-oke/clipchat-backend/internal/conversation"
	"github.com/tobi-oke/clipchat-backend/internal/shared"
	"github.com/tobi-oke/clipchat-backend/internal/video"
	"github.com/tobi-oke/clipchat-backend/internal/vision"
)

// Assembler builds the per-request model payload from the session's current
// artifact and a snapshot of its log. It is mode-agnostic about history
// content and mode-aware only through the instruction template.
type Assembler struct {
	budget int
}

// NewAssembler configures the history character budget applied by
// conversation.Window before payloads are built.
func NewAssembler(budgetChars int) *Assembler {
	if budgetChars <= 0 {
		budgetChars = 12000
	}
	return &Assembler{budget: budgetChars}
}

func (a *Assembler) BuildPayload(
	artifact *video.Artifact,
	turns []conversation.Turn,
	mode conversation.Mode,
	promptText string,
	opts AnalysisOptions,
) (*vision.Payload, error) {
	if artifact == nil {
		return nil, shared.ErrNoActiveVideo
	}

	windowed := conversation.Window(turns, a.budget)
	history := make([]vision.HistoryTurn, len(windowed))
	for i, t := range windowed {
		history[i] = vision.HistoryTurn{
			Role:    string(t.Role),
			Content: t.Content,
		}
	}

	var instruction string
	switch mode {
	case conversation.ModeAnalysis:
		instruction = AnalysisInstruction(opts, artifact.DurationSeconds)
	default:
		instruction = ChatInstruction()
	}

	return &vision.Payload{
		VideoHandle:     artifact.Handle,
		DurationSeconds: artifact.DurationSeconds,
		Instruction:     instruction,
		History:         history,
		Prompt:          promptText,
	}, nil
}
