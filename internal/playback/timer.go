// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playback

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultInterval is the tick period; 100 ticks play one story.
const DefaultInterval = 50 * time.Millisecond

var nextID atomic.Uint64

// Tick is delivered once per interval while a Handle runs.
type Tick struct {
	// HandleID identifies the Handle that produced the tick.
	HandleID uint64
	At       time.Time
}

// =============================================================================
// HANDLE
// =============================================================================

// Handle is a running ticker. Use Start to create one.
type Handle struct {
	id     uint64
	c      chan Tick
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Start begins ticking every interval and delivers ticks on C. The handle
// stops when ctx is cancelled or Stop is called; C is closed afterwards.
func Start(ctx context.Context, interval time.Duration) *Handle {
	h := newHandle(ctx)
	go h.run(interval, func(t Tick) bool {
		select {
		case h.c <- t:
			return true
		case <-h.ctx.Done():
			return false
		}
	})
	return h
}

func newHandle(parent context.Context) *Handle {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Handle{
		id:     nextID.Add(1),
		c:      make(chan Tick),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (h *Handle) run(interval time.Duration, deliver func(Tick) bool) {
	defer close(h.done)
	defer close(h.c)

	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case now := <-ticker.C:
			// A tick that raced with cancellation is dropped.
			if h.ctx.Err() != nil {
				return
			}
			if !deliver(Tick{HandleID: h.id, At: now}) {
				return
			}
		}
	}
}

// ID returns the handle's unique identifier.
func (h *Handle) ID() uint64 {
	if h == nil {
		return 0
	}
	return h.id
}

// C returns the tick channel. It is closed when the handle stops.
func (h *Handle) C() <-chan Tick {
	return h.c
}

// Done is closed once the ticker goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Stop cancels the ticker and waits for its goroutine to exit. It is safe
// to call more than once and on a nil handle.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

// Stopped reports whether the handle has stopped.
func (h *Handle) Stopped() bool {
	if h == nil {
		return true
	}
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
