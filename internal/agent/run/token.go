package run

import "sync/atomic"

// Token is a shared cancellable flag. The transition is one-way: once
// cancelled it stays cancelled for the lifetime of the token, and a new run
// always gets a new token. Safe for concurrent use.
type Token struct {
	cancelled atomic.Bool
}

func NewToken() *Token {
	return &Token{}
}

// Cancel transitions the token to cancelled. Idempotent.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether the token was cancelled. Never blocks.
func (t *Token) Cancelled() bool {
	return t.cancelled.Load()
}
