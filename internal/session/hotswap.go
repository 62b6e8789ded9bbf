package session

import (
	"context"
	"sync"
)

// HotSwap holds the current Session and lets it be replaced while readers
// keep using the snapshot they already have.
type HotSwap struct {
	mu      sync.RWMutex
	current *Session
}

func NewHotSwap(initial *Session) *HotSwap {
	return &HotSwap{current: initial}
}

// Current returns the active session.
func (h *HotSwap) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Swap replaces the active session and returns the previous one.
func (h *HotSwap) Swap(next *Session) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.current
	h.current = next
	return prev
}

// Reload builds a session with open and swaps it in.
// On error the active session is kept.
func (h *HotSwap) Reload(ctx context.Context, open func(context.Context) (*Session, error)) (*Session, error) {
	next, err := open(ctx)
	if err != nil {
		return nil, err
	}
	h.Swap(next)
	return next, nil
}
