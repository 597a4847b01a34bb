package search

import "sync"

// Token identifies one issued fetch.
type Token uint64

// Tracker hands out fetch tokens so that only the response to the latest
// request is applied.
type Tracker struct {
	mu     sync.Mutex
	latest Token
}

// Next issues a token and makes every earlier token stale.
func (t *Tracker) Next() Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	return t.latest
}

// Current reports whether tok is still the latest token.
func (t *Tracker) Current(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tok == t.latest
}

// Invalidate makes every outstanding token stale.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
}
