package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/Bookline-core-poc-v1/server/internal/agent/notify"
	"github.com/Bookline-core-poc-v1/server/internal/agent/run"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingRunner parks every run on a release channel so tests can overlap
// two messages deterministically.
type blockingRunner struct {
	started chan *run.Token
	release chan struct{}
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started: make(chan *run.Token, 4),
		release: make(chan struct{}),
	}
}

func (r *blockingRunner) Run(_ context.Context, _, _ string, token *run.Token, _ *notify.Notifier) run.Outcome {
	r.started <- token
	<-r.release
	if token.Cancelled() {
		return run.Outcome{Status: run.StatusCancelled, Results: map[string]model.ToolResult{}}
	}
	return run.Outcome{Status: run.StatusSuccess, Response: "done"}
}

type instantRunner struct {
	outcome run.Outcome
	panics  bool
}

func (r *instantRunner) Run(_ context.Context, _, _ string, _ *run.Token, _ *notify.Notifier) run.Outcome {
	if r.panics {
		panic("tool exploded")
	}
	return r.outcome
}

// recordingMessenger captures every outbound text.
type recordingMessenger struct {
	mu    sync.Mutex
	texts []string
}

func (m *recordingMessenger) Send(_ context.Context, _ string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return nil
}

func (m *recordingMessenger) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

func testNotifierCfg() notify.Config {
	return notify.Config{MaxMessages: 2, FirstAfter: 4 * time.Second, SecondAfter: 10 * time.Second}
}

func waitForToken(t *testing.T, ch chan *run.Token) *run.Token {
	t.Helper()
	select {
	case token := <-ch:
		return token
	case <-time.After(2 * time.Second):
		t.Fatal("run never started")
		return nil
	}
}

func TestProcessMessageCancelsInFlightRun(t *testing.T) {
	runner := newBlockingRunner()
	messenger := &recordingMessenger{}
	m := NewManager(runner, messenger, testNotifierCfg())

	var wg sync.WaitGroup
	outcomes := make([]run.Outcome, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		outcomes[0] = m.ProcessMessage(context.Background(), "u1", "first")
	}()
	first := waitForToken(t, runner.started)
	assert.False(t, first.Cancelled())

	wg.Add(1)
	go func() {
		defer wg.Done()
		outcomes[1] = m.ProcessMessage(context.Background(), "u1", "second")
	}()
	second := waitForToken(t, runner.started)

	// The second message cancelled the first run's token before its own run
	// became visible.
	assert.True(t, first.Cancelled())
	assert.False(t, second.Cancelled())
	assert.Contains(t, messenger.sent(), "Got your new message, switching to that instead.")

	close(runner.release)
	wg.Wait()

	assert.Equal(t, run.StatusCancelled, outcomes[0].Status)
	assert.Equal(t, run.StatusSuccess, outcomes[1].Status)
	assert.False(t, m.Active("u1"), "no session may outlive its run")
}

func TestProcessMessageDifferentUsersDoNotInterfere(t *testing.T) {
	runner := newBlockingRunner()
	m := NewManager(runner, &recordingMessenger{}, testNotifierCfg())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.ProcessMessage(context.Background(), "u1", "hello")
	}()
	go func() {
		defer wg.Done()
		m.ProcessMessage(context.Background(), "u2", "hello")
	}()

	a := waitForToken(t, runner.started)
	b := waitForToken(t, runner.started)
	assert.False(t, a.Cancelled())
	assert.False(t, b.Cancelled())

	close(runner.release)
	wg.Wait()
	assert.False(t, m.Active("u1"))
	assert.False(t, m.Active("u2"))
}

func TestProcessMessageCleansUpOnEveryOutcome(t *testing.T) {
	cases := []struct {
		name    string
		outcome run.Outcome
	}{
		{name: "success", outcome: run.Outcome{Status: run.StatusSuccess, Response: "ok"}},
		{name: "cancelled", outcome: run.Outcome{Status: run.StatusCancelled}},
		{name: "failure", outcome: run.Outcome{Status: run.StatusFailure}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewManager(&instantRunner{outcome: tc.outcome}, nil, testNotifierCfg())
			got := m.ProcessMessage(context.Background(), "u1", "hi")
			assert.Equal(t, tc.outcome.Status, got.Status)
			assert.False(t, m.Active("u1"))
		})
	}
}

func TestProcessMessageRecoversFromPanic(t *testing.T) {
	m := NewManager(&instantRunner{panics: true}, nil, testNotifierCfg())

	outcome := m.ProcessMessage(context.Background(), "u1", "hi")
	assert.Equal(t, run.StatusFailure, outcome.Status)
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "tool exploded")
	assert.False(t, m.Active("u1"))
}

func TestActiveReflectsRegistration(t *testing.T) {
	runner := newBlockingRunner()
	m := NewManager(runner, nil, testNotifierCfg())

	assert.False(t, m.Active("u1"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.ProcessMessage(context.Background(), "u1", "hi")
	}()
	waitForToken(t, runner.started)
	assert.True(t, m.Active("u1"))

	close(runner.release)
	<-done
	assert.False(t, m.Active("u1"))
}
