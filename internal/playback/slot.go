// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playback

import "sync"

// Slot owns at most one running Handle.
// Keep it behind a pointer in Bubble Tea models so copies share the mutex.
type Slot struct {
	mu     sync.Mutex
	handle *Handle
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Replace stores h, stopping any handle already held, and returns h.
func (s *Slot) Replace(h *Handle) *Handle {
	s.mu.Lock()
	prev := s.handle
	s.handle = h
	s.mu.Unlock()

	if prev != nil && prev != h {
		prev.Stop()
	}
	return h
}

// Current returns the held handle, or nil.
func (s *Slot) Current() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Owns reports whether id belongs to the held handle.
func (s *Slot) Owns(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil && s.handle.id == id
}

// Stop stops and clears the held handle. Safe to call on an empty slot.
func (s *Slot) Stop() {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.mu.Unlock()

	h.Stop()
}
