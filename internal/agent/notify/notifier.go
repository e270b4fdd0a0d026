package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	logx "github.com/Bookline-core-poc-v1/server/pkg/logger"
)

// Messenger delivers best-effort progress text to a user's channel. Failures
// are logged, never propagated into the run.
type Messenger interface {
	Send(ctx context.Context, userID string, text string) error
}

// Config holds parsed notifier thresholds.
type Config struct {
	MaxMessages int
	FirstAfter  time.Duration
	SecondAfter time.Duration
}

// ConfigFrom parses the envconfig representation into usable durations.
func ConfigFrom(cfg model.NotifierConfig) (Config, error) {
	first, err := time.ParseDuration(cfg.FirstAfter)
	if err != nil {
		return Config{}, fmt.Errorf("invalid NOTIFY_FIRST_AFTER %q: %w", cfg.FirstAfter, err)
	}
	second, err := time.ParseDuration(cfg.SecondAfter)
	if err != nil {
		return Config{}, fmt.Errorf("invalid NOTIFY_SECOND_AFTER %q: %w", cfg.SecondAfter, err)
	}
	return Config{MaxMessages: cfg.MaxMessages, FirstAfter: first, SecondAfter: second}, nil
}

// Notifier throttles progress messages for a single run. It is created per run
// and holds only run-scoped counters; it must never be shared across runs.
type Notifier struct {
	messenger Messenger
	userID    string
	cfg       Config
	now       func() time.Time

	mu      sync.Mutex
	started time.Time
	sent    int
}

func New(messenger Messenger, userID string, cfg Config) *Notifier {
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 2
	}
	n := &Notifier{
		messenger: messenger,
		userID:    userID,
		cfg:       cfg,
		now:       time.Now,
	}
	n.started = n.now()
	return n
}

// ToolStarted fires the first progress message when a known-slow tool begins,
// or when the first threshold has already passed.
func (n *Notifier) ToolStarted(ctx context.Context, tool string) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sent != 0 {
		return
	}
	if !slowTool(tool) && n.elapsed() < n.cfg.FirstAfter {
		return
	}
	n.send(ctx, "Still working on it, give me a moment...")
}

// ElapsedCheck is called at wave boundaries. It fires the first message once
// the first threshold passes, and the second only past the larger threshold
// and only after the first went out.
func (n *Notifier) ElapsedCheck(ctx context.Context) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	elapsed := n.elapsed()
	switch {
	case n.sent == 0 && elapsed >= n.cfg.FirstAfter:
		n.send(ctx, "Still working on it, give me a moment...")
	case n.sent == 1 && elapsed >= n.cfg.SecondAfter:
		n.send(ctx, "This is taking a bit longer than usual, almost there...")
	}
}

// Adapting announces a replanning phase. It competes for the same message
// budget as the timing notifications.
func (n *Notifier) Adapting(ctx context.Context) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send(ctx, "First attempt didn't pan out, trying another angle...")
}

// Sent returns how many messages went out for this run.
func (n *Notifier) Sent() int {
	if n == nil {
		return 0
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent
}

func (n *Notifier) elapsed() time.Duration {
	return n.now().Sub(n.started)
}

// send assumes n.mu is held.
func (n *Notifier) send(ctx context.Context, text string) {
	if n.sent >= n.cfg.MaxMessages {
		return
	}
	n.sent++
	if n.messenger == nil {
		return
	}
	if err := n.messenger.Send(ctx, n.userID, text); err != nil {
		logx.Warn().Err(err).Str("user_id", n.userID).Msg("progress notification failed")
	}
}

// slowTool reports whether a tool belongs to a category known to take long
// enough that the user should hear something immediately.
func slowTool(tool string) bool {
	return model.CategoryOf(tool) == model.CategorySearch
}
