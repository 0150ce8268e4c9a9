package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tobi-oke/clipchat-backend/internal/conversation"
	"github.com/tobi-oke/clipchat-backend/internal/prompt"
	"github.com/tobi-oke/clipchat-backend/internal/shared"
	"github.com/tobi-oke/clipchat-backend/internal/video"
	"github.com/tobi-oke/clipchat-backend/internal/vision"
)

// Manager holds the live sessions. Sessions are fully independent of each
// other; the map lock only guards membership.
type Manager struct {
	registry  *video.Registry
	assembler *prompt.Assembler
	model     vision.Client
	store     *Store
	metrics   *Metrics
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(
	registry *video.Registry,
	assembler *prompt.Assembler,
	model vision.Client,
	store *Store,
	metrics *Metrics,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry:  registry,
		assembler: assembler,
		model:     model,
		store:     store,
		metrics:   metrics,
		logger:    logger.With("component", "session-manager"),
		sessions:  make(map[string]*Session),
	}
}

func (m *Manager) Create(ctx context.Context) (*Session, error) {
	rec := &Record{Mode: conversation.ModeChat}
	if m.store != nil {
		if err := m.store.Create(ctx, rec); err != nil {
			return nil, err
		}
	} else {
		rec.ID = shared.NewID("sess_")
	}

	sess := newSession(rec, m.registry, m.assembler, m.model, m.store, m.metrics, m.logger)

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", sess.ID)
	return sess, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, shared.ErrNotFound
	}
	return sess, nil
}

// Delete tears the session down: payload removed, record gone, membership
// dropped. Unknown ids return ErrNotFound.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return shared.ErrNotFound
	}

	sess.teardown(ctx)
	if m.store != nil {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("failed to delete session record", "error", err, "session_id", id)
		}
	}

	m.logger.Info("session deleted", "session_id", id)
	return nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
