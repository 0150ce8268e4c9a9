package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tobi-oke/clipchat-backend/internal/conversation"
	"github.com/tobi-oke/clipchat-backend/internal/interpret"
	"github.com/tobi-oke/clipchat-backend/internal/prompt"
	"github.com/tobi-oke/clipchat-backend/internal/shared"
	"github.com/tobi-oke/clipchat-backend/internal/video"
	"github.com/tobi-oke/clipchat-backend/internal/vision"
)

// Session owns one conversation: the active video artifact, the append-only
// turn log and the current mode. A single mutex serializes uploads, requests
// and resets, so the assembler always reads a snapshot the resulting
// assistant turn actually follows from.
//
// Every error path leaves the session exactly as it was: turns are appended
// only after the model call succeeded and its response was interpreted.
type Session struct {
	ID string

	registry  *video.Registry
	assembler *prompt.Assembler
	model     vision.Client
	store     *Store
	metrics   *Metrics
	logger    *slog.Logger

	mu       sync.Mutex
	rec      *Record
	artifact *video.Artifact
	log      *conversation.Log
	mode     conversation.Mode
}

func newSession(
	rec *Record,
	registry *video.Registry,
	assembler *prompt.Assembler,
	model vision.Client,
	store *Store,
	metrics *Metrics,
	logger *slog.Logger,
) *Session {
	return &Session{
		ID:        rec.ID,
		registry:  registry,
		assembler: assembler,
		model:     model,
		store:     store,
		metrics:   metrics,
		logger:    logger.With("session_id", rec.ID),
		rec:       rec,
		log:       conversation.NewLog(),
		mode:      conversation.ModeChat,
	}
}

// UploadVideo validates and registers a new video. A successful upload
// replaces the active artifact and clears the turn log: a new video starts a
// new conversation. A rejected upload changes nothing.
func (s *Session) UploadVideo(ctx context.Context, up video.Upload) (*video.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	artifact, err := s.registry.Ingest(ctx, up)
	if err != nil {
		if s.metrics != nil {
			s.metrics.Uploads.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}

	old := s.artifact
	s.artifact = artifact
	s.log.Clear()

	if old != nil {
		if err := s.registry.Remove(ctx, old.Handle); err != nil {
			s.logger.Warn("failed to remove replaced video payload", "error", err, "handle", old.Handle)
		}
	}

	if s.metrics != nil {
		s.metrics.Uploads.WithLabelValues("accepted").Inc()
	}
	s.syncRecord(ctx)

	s.logger.Info("video registered, conversation reset",
		"artifact_id", artifact.ID,
		"duration_s", artifact.DurationSeconds)

	return artifact, nil
}

// Request runs one conversation turn: validate, assemble, call the model,
// interpret, then commit the user and assistant turns together.
func (s *Session) Request(ctx context.Context, mode conversation.Mode, promptText string, opts prompt.AnalysisOptions) (*conversation.Turn, error) {
	if !mode.Valid() {
		return nil, shared.NewValidationError("mode", "must be chat or analysis")
	}
	if strings.TrimSpace(promptText) == "" {
		return nil, shared.NewValidationError("prompt", "must not be empty")
	}
	if mode == conversation.ModeAnalysis && !opts.Valid() {
		return nil, shared.ErrInvalidOptions
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := s.assembler.BuildPayload(s.artifact, s.log.Snapshot(), mode, promptText, opts)
	if err != nil {
		s.observeRequest(mode, "rejected")
		return nil, err
	}

	start := time.Now()
	raw, err := s.model.Generate(ctx, payload)
	if s.metrics != nil {
		s.metrics.ModelLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.observeRequest(mode, "model_error")
		return nil, err
	}

	var content string
	var analysis *conversation.AnalysisResult
	switch mode {
	case conversation.ModeAnalysis:
		analysis, err = interpret.Analysis(raw, payload.DurationSeconds, opts)
		content = strings.TrimSpace(raw)
	default:
		content, err = interpret.Chat(raw)
	}
	if err != nil {
		s.observeRequest(mode, "format_error")
		return nil, err
	}

	s.log.Append(conversation.RoleUser, mode, promptText, nil)
	s.log.Append(conversation.RoleAssistant, mode, content, analysis)
	s.mode = mode
	s.syncRecord(ctx)
	s.observeRequest(mode, "ok")

	turns := s.log.Snapshot()
	return &turns[len(turns)-1], nil
}

// History returns an independent copy of the full conversation.
func (s *Session) History() []conversation.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Snapshot()
}

// Reset clears history on user request. The active video is kept.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Clear()
	s.syncRecord(ctx)
}

func (s *Session) Mode() conversation.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Active returns the current artifact or ErrNoActiveVideo.
func (s *Session) Active() (*video.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.artifact == nil {
		return nil, shared.ErrNoActiveVideo
	}
	copied := *s.artifact
	return &copied, nil
}

// teardown removes the stored video payload. Called by the manager on
// session delete; callers must not use the session afterwards.
func (s *Session) teardown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.artifact != nil {
		if err := s.registry.Remove(ctx, s.artifact.Handle); err != nil {
			s.logger.Warn("failed to remove video payload on teardown", "error", err)
		}
		s.artifact = nil
	}
}

// syncRecord mirrors counters into redis, best effort. Caller holds the lock.
func (s *Session) syncRecord(ctx context.Context) {
	if s.store == nil {
		return
	}
	s.rec.Mode = s.mode
	s.rec.TurnCount = s.log.Len()
	if s.artifact != nil {
		s.rec.VideoHandle = s.artifact.Handle
	} else {
		s.rec.VideoHandle = ""
	}
	if err := s.store.Update(ctx, s.rec); err != nil {
		s.logger.Warn("failed to sync session record", "error", err)
	}
}

func (s *Session) observeRequest(mode conversation.Mode, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Requests.WithLabelValues(string(mode), status).Inc()
}
