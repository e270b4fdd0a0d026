package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMessenger struct {
	mu    sync.Mutex
	texts []string
}

func (m *captureMessenger) Send(_ context.Context, _ string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return nil
}

func (m *captureMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

// testNotifier returns a notifier on a manual clock plus the advance function.
func testNotifier(m Messenger) (*Notifier, func(d time.Duration)) {
	base := time.Unix(1700000000, 0)
	current := base
	n := New(m, "u1", Config{MaxMessages: 2, FirstAfter: 4 * time.Second, SecondAfter: 10 * time.Second})
	n.now = func() time.Time { return current }
	n.started = base
	return n, func(d time.Duration) { current = current.Add(d) }
}

func TestConfigFromParsesDurations(t *testing.T) {
	cfg, err := ConfigFrom(model.NotifierConfig{MaxMessages: 2, FirstAfter: "4s", SecondAfter: "10s"})
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, cfg.FirstAfter)
	assert.Equal(t, 10*time.Second, cfg.SecondAfter)

	_, err = ConfigFrom(model.NotifierConfig{FirstAfter: "soon", SecondAfter: "10s"})
	assert.Error(t, err)
}

func TestSlowToolFiresFirstMessageImmediately(t *testing.T) {
	m := &captureMessenger{}
	n, _ := testNotifier(m)

	n.ToolStarted(context.Background(), model.ToolSearchRooms)
	assert.Equal(t, 1, n.Sent())
	assert.Equal(t, 1, m.count())
}

func TestFastToolStaysQuietBeforeThreshold(t *testing.T) {
	m := &captureMessenger{}
	n, advance := testNotifier(m)

	n.ToolStarted(context.Background(), model.ToolGetRoomDetails)
	assert.Zero(t, n.Sent())

	// Past the first threshold even a fast tool triggers the heads-up.
	advance(5 * time.Second)
	n.ToolStarted(context.Background(), model.ToolGetRoomDetails)
	assert.Equal(t, 1, n.Sent())
}

func TestElapsedCheckThresholds(t *testing.T) {
	m := &captureMessenger{}
	n, advance := testNotifier(m)

	n.ElapsedCheck(context.Background())
	assert.Zero(t, n.Sent())

	advance(4 * time.Second)
	n.ElapsedCheck(context.Background())
	assert.Equal(t, 1, n.Sent())

	// Second message only past the larger threshold.
	advance(2 * time.Second)
	n.ElapsedCheck(context.Background())
	assert.Equal(t, 1, n.Sent())

	advance(5 * time.Second)
	n.ElapsedCheck(context.Background())
	assert.Equal(t, 2, n.Sent())

	// Budget spent, further checks stay silent.
	advance(time.Minute)
	n.ElapsedCheck(context.Background())
	assert.Equal(t, 2, n.Sent())
	assert.Equal(t, 2, m.count())
}

func TestHardCapUnderMixedSequence(t *testing.T) {
	m := &captureMessenger{}
	n, advance := testNotifier(m)
	ctx := context.Background()

	n.ToolStarted(ctx, model.ToolSearchRooms)
	n.Adapting(ctx)
	n.Adapting(ctx)
	advance(time.Minute)
	n.ElapsedCheck(ctx)
	n.ToolStarted(ctx, model.ToolSearchRooms)

	assert.Equal(t, 2, n.Sent())
	assert.Equal(t, 2, m.count())
}

func TestFirstMessageFiresAtMostOnce(t *testing.T) {
	m := &captureMessenger{}
	n, _ := testNotifier(m)

	n.ToolStarted(context.Background(), model.ToolSearchRooms)
	n.ToolStarted(context.Background(), model.ToolSearchRooms)
	assert.Equal(t, 1, n.Sent())
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.ToolStarted(context.Background(), model.ToolSearchRooms)
	n.ElapsedCheck(context.Background())
	n.Adapting(context.Background())
	assert.Zero(t, n.Sent())
}

func TestNilMessengerCountsButDoesNotSend(t *testing.T) {
	n, _ := testNotifier(nil)
	n.Adapting(context.Background())
	assert.Equal(t, 1, n.Sent())
}
