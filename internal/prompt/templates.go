package prompt

import (
	"fmt"
	"strings"
)

// AnalysisOptions selects the extraction targets for detailed analysis. At
// least one toggle must be set.
type AnalysisOptions struct {
	Summary  bool `json:"summary"`
	Timeline bool `json:"timeline"`
}

func (o AnalysisOptions) Valid() bool {
	return o.Summary || o.Timeline
}

const chatInstruction = `You are an expert video analyst. The attached images are key frames
sampled from a single short video. Answer the user's question about the
video directly and concisely, noting activities, people, objects and any
progression between frames when relevant.`

func ChatInstruction() string {
	return chatInstruction
}

// AnalysisInstruction requests the fixed layout the interpreter parses:
// a SUMMARY: block and/or a TIMELINE: block with one
// "timestamp | label | description" row per line.
func AnalysisInstruction(opts AnalysisOptions, durationSeconds float64) string {
	var b strings.Builder
	b.WriteString("You are an expert video analyst. The attached images are key frames\n")
	b.WriteString("sampled from a single short video. Produce a structured report using\n")
	b.WriteString("exactly the sections requested below and no other text.\n")

	if opts.Summary {
		b.WriteString("\nSUMMARY:\n")
		b.WriteString("A short paragraph describing what happens in the video.\n")
	}
	if opts.Timeline {
		b.WriteString("\nTIMELINE:\n")
		b.WriteString("One row per notable object or event, in chronological order, formatted as\n")
		b.WriteString("timestamp | label | description\n")
		fmt.Fprintf(&b, "Timestamps are seconds from the start of the video and must not exceed %.0f.\n", durationSeconds)
	}

	return b.String()
}
