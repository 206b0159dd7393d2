package app

import (
	"context"
	"time"

	"digitpad/domain/core"
	"digitpad/internal"
	"digitpad/internal/errors"
	"digitpad/ports"
)

// SessionConfig sizes new sessions and bounds their idle lifetime.
type SessionConfig struct {
	Width          int
	Height         int
	ModelInputSize uint
	TTL            time.Duration
}

// SessionManager creates, finds and expires sketch sessions.
type SessionManager struct {
	store  ports.SessionRepository[*Session]
	config SessionConfig
	logger *internal.Logger
	now    func() time.Time
}

// NewSessionManager creates a session manager over store.
func NewSessionManager(store ports.SessionRepository[*Session], config SessionConfig, logger *internal.Logger) *SessionManager {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SessionManager{
		store:  store,
		config: config,
		logger: logger.With("sessions"),
		now:    time.Now,
	}
}

// Create starts a new session with a blank canvas.
func (m *SessionManager) Create() (*Session, error) {
	s, err := newSession(core.NewSessionID(), m.config.Width, m.config.Height, m.config.ModelInputSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session canvas")
	}
	m.store.Put(s.ID, s)
	m.logger.Debug("session %s created (%dx%d)", s.ID, m.config.Width, m.config.Height)
	return s, nil
}

// Get looks up a session. Unknown IDs return core.ErrSessionNotFound.
func (m *SessionManager) Get(id core.SessionID) (*Session, error) {
	return m.store.Get(id)
}

// Remove drops a session and releases its canvas.
func (m *SessionManager) Remove(id core.SessionID) error {
	s, err := m.store.Get(id)
	if err != nil {
		return err
	}
	m.store.Delete(id)
	return s.close()
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	return m.store.Len()
}

// Sweep removes sessions idle longer than the TTL.
func (m *SessionManager) Sweep() int {
	expired := m.store.Expire(m.now().Add(-m.config.TTL))
	for _, s := range expired {
		if err := s.close(); err != nil {
			m.logger.Warn("closing session %s: %v", s.ID, err)
		}
	}
	if len(expired) > 0 {
		m.logger.Info("expired %d idle sessions", len(expired))
	}
	return len(expired)
}

// minSweepInterval bounds how often Run sweeps.
const minSweepInterval = time.Second

// Run sweeps periodically until ctx is cancelled. Intervals below one
// second are raised to one second.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) error {
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}
