package conversation

import "time"

// Log is the session's append-only conversation memory. Sequence numbers are
// contiguous from 1 and never reused until a full Clear. The log does no
// locking of its own; the owning session serializes access.
type Log struct {
	turns   []Turn
	nextSeq int
}

func NewLog() *Log {
	return &Log{nextSeq: 1}
}

// Append records a turn and returns its sequence number. Individual entries
// can never be removed afterwards.
func (l *Log) Append(role Role, mode Mode, content string, analysis *AnalysisResult) int {
	seq := l.nextSeq
	l.nextSeq++
	l.turns = append(l.turns, Turn{
		SequenceNo: seq,
		Role:       role,
		Mode:       mode,
		Content:    content,
		Analysis:   analysis,
		CreatedAt:  time.Now().UTC(),
	})
	return seq
}

// Snapshot returns an independent copy of the log. Callers may hold it across
// a model call without observing later appends.
func (l *Log) Snapshot() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

func (l *Log) Len() int {
	return len(l.turns)
}

// Clear empties the log and restarts numbering. Only invoked on video
// replacement or explicit session reset.
func (l *Log) Clear() {
	l.turns = nil
	l.nextSeq = 1
}
