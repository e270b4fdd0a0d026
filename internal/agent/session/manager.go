package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/notify"
	"github.com/Bookline-core-poc-v1/server/internal/agent/run"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
	"github.com/google/uuid"
)

// Runner executes one run for a user message. The orchestrator implements it.
type Runner interface {
	Run(ctx context.Context, userID, message string, token *run.Token, notifier *notify.Notifier) run.Outcome
}

// Session is the live, cancellable run state for one user. At most one exists
// per user id at any time.
type Session struct {
	UserID    string
	RunID     string
	Token     *run.Token
	StartedAt time.Time
}

// Manager enforces single-flight execution per user: a new message cancels
// the prior run's token before its own session becomes visible. The mutex
// guards only the session table, never the run itself, so one user's slow run
// never delays another user's message.
type Manager struct {
	runner      Runner
	messenger   notify.Messenger
	notifierCfg notify.Config

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(runner Runner, messenger notify.Messenger, notifierCfg notify.Config) *Manager {
	return &Manager{
		runner:      runner,
		messenger:   messenger,
		notifierCfg: notifierCfg,
		sessions:    make(map[string]*Session),
	}
}

// ProcessMessage handles one inbound message end to end and returns the run's
// outcome. If a run is already in flight for the user it is cancelled and the
// user is told the new request superseded it.
func (m *Manager) ProcessMessage(ctx context.Context, userID, text string) (outcome run.Outcome) {
	sess := &Session{
		UserID:    userID,
		RunID:     uuid.NewString(),
		Token:     run.NewToken(),
		StartedAt: time.Now(),
	}

	m.mu.Lock()
	if prev, ok := m.sessions[userID]; ok {
		prev.Token.Cancel()
		delete(m.sessions, userID)
		logx.Debug().Str("user_id", userID).Str("run_id", prev.RunID).Msg("cancelled in-flight run for new message")
		if m.messenger != nil {
			if err := m.messenger.Send(ctx, userID, "Got your new message, switching to that instead."); err != nil {
				logx.Warn().Err(err).Str("user_id", userID).Msg("supersede acknowledgment failed")
			}
		}
	}
	m.sessions[userID] = sess
	m.mu.Unlock()

	// The entry must be released on every exit path, including panics, and
	// must never remove a replacement session registered after this one was
	// cancelled.
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("user_id", userID).Str("run_id", sess.RunID).Msgf("run panicked: %v", r)
			outcome = run.Outcome{Status: run.StatusFailure, Err: fmt.Errorf("run panic: %v", r)}
		}
		m.mu.Lock()
		if cur, ok := m.sessions[userID]; ok && cur == sess {
			delete(m.sessions, userID)
		}
		m.mu.Unlock()
	}()

	notifier := notify.New(m.messenger, userID, m.notifierCfg)
	return m.runner.Run(ctx, userID, text, sess.Token, notifier)
}

// Active reports whether a session is currently registered for the user.
func (m *Manager) Active(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userID]
	return ok
}
