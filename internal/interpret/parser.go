// Package interpret parses raw model output into the shape the requested
// mode promised: free text for chat, SUMMARY/TIMELINE sections for detailed
// analysis. The grammar is small and explicit; bad rows are dropped with a
// warning, and only a wholly unusable response is an error.
package interpret

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tobi-oke/clipchat-backend/internal/conversation"
	"github.com/tobi-oke/clipchat-backend/internal/prompt"
	"github.com/tobi-oke/clipchat-backend/internal/shared"
)

// Chat accepts free-form text as-is. An empty response is unusable.
func Chat(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("empty chat response: %w", shared.ErrResponseFormat)
	}
	return text, nil
}

// Analysis parses the structured layout the analysis template requested.
// Recovery policy: a malformed row, a non-numeric timestamp, a timestamp
// beyond the video duration or one regressing below the previous kept row is
// dropped and recorded as a warning. Out-of-range rows are excluded, never
// clamped. A response with no recognizable section, or with every requested
// section empty, fails with ErrResponseFormat.
func Analysis(raw string, durationSeconds float64, opts prompt.AnalysisOptions) (*conversation.AnalysisResult, error) {
	result := &conversation.AnalysisResult{}

	const (
		sectionNone = iota
		sectionSummary
		sectionTimeline
	)

	section := sectionNone
	sawSection := false
	var summaryLines []string
	lastKept := -1.0

	for _, line := range strings.Split(raw, "\n") {
		if name, rest, ok := matchHeader(line); ok {
			sawSection = true
			switch name {
			case "summary":
				section = sectionSummary
				if rest != "" {
					summaryLines = append(summaryLines, rest)
				}
			case "timeline":
				section = sectionTimeline
			}
			continue
		}

		switch section {
		case sectionSummary:
			summaryLines = append(summaryLines, line)
		case sectionTimeline:
			entry, warn := parseRow(line, durationSeconds, lastKept)
			if warn != "" {
				result.Warnings = append(result.Warnings, warn)
				continue
			}
			if entry == nil {
				continue
			}
			lastKept = entry.TimestampSeconds
			result.Timeline = append(result.Timeline, *entry)
		}
	}

	if !sawSection {
		return nil, fmt.Errorf("no recognizable sections in response: %w", shared.ErrResponseFormat)
	}

	result.Summary = strings.TrimSpace(strings.Join(summaryLines, "\n"))

	hasSummary := result.Summary != ""
	hasTimeline := len(result.Timeline) > 0

	if opts.Summary && !hasSummary && (!opts.Timeline || !hasTimeline) {
		return nil, fmt.Errorf("every requested section is empty: %w", shared.ErrResponseFormat)
	}
	if opts.Timeline && !hasTimeline && (!opts.Summary || !hasSummary) {
		return nil, fmt.Errorf("every requested section is empty: %w", shared.ErrResponseFormat)
	}

	if opts.Summary && !hasSummary {
		result.Warnings = append(result.Warnings, "summary section missing")
	}
	if opts.Timeline && !hasTimeline {
		result.Warnings = append(result.Warnings, "timeline section missing or fully dropped")
	}

	return result, nil
}

// matchHeader recognizes a SUMMARY:/TIMELINE: section header, tolerating
// markdown decoration. It returns any inline content after the colon.
func matchHeader(line string) (name, rest string, ok bool) {
	trimmed := strings.Trim(strings.TrimSpace(line), "#*_ ")
	upper := strings.ToUpper(trimmed)

	for _, candidate := range []string{"summary", "timeline"} {
		prefix := strings.ToUpper(candidate) + ":"
		if strings.HasPrefix(upper, prefix) {
			return candidate, strings.Trim(strings.TrimSpace(trimmed[len(prefix):]), "*_ "), true
		}
	}
	return "", "", false
}

// parseRow parses one "timestamp | label | description" row. It returns
// (nil, "") for ignorable lines and a warning string for dropped rows.
func parseRow(line string, durationSeconds, lastKept float64) (*conversation.TimelineEntry, string) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "-* ")
	if trimmed == "" {
		return nil, ""
	}

	parts := strings.Split(trimmed, "|")
	if len(parts) != 3 {
		return nil, fmt.Sprintf("malformed timeline row dropped: %q", trimmed)
	}

	tsText := strings.TrimSpace(parts[0])
	label := strings.TrimSpace(parts[1])
	description := strings.TrimSpace(parts[2])

	// models sometimes echo the format line back
	if strings.EqualFold(tsText, "timestamp") && strings.EqualFold(label, "label") {
		return nil, ""
	}

	ts, err := parseTimestamp(tsText)
	if err != nil {
		return nil, fmt.Sprintf("non-numeric timestamp dropped: %q", trimmed)
	}
	if ts > durationSeconds {
		return nil, fmt.Sprintf("timestamp %.1fs beyond video duration %.1fs, row dropped", ts, durationSeconds)
	}
	if ts < lastKept {
		return nil, fmt.Sprintf("out-of-order timestamp %.1fs after %.1fs, row dropped", ts, lastKept)
	}

	return &conversation.TimelineEntry{
		TimestampSeconds: ts,
		Label:            label,
		Description:      description,
	}, ""
}

// parseTimestamp accepts plain seconds ("83", "83.5", "83s"), m:ss and
// h:mm:ss forms.
func parseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "s"))
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total := 0.0
		for _, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil || v < 0 {
				return 0, fmt.Errorf("invalid timestamp %q", s)
			}
			total = total*60 + v
		}
		return total, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return v, nil
}
