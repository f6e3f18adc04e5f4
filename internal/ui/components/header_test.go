// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestNewHeader(t *testing.T) {
	theme := styles.NewTheme("dark")
	h := NewHeader(theme)

	if h == nil {
		t.Fatal("NewHeader() returned nil")
	}
	if h.Title != "palaver" {
		t.Errorf("NewHeader() Title = %q, want %q", h.Title, "palaver")
	}
	if h.Width != 80 {
		t.Errorf("NewHeader() Width = %d, want 80", h.Width)
	}
	if h.theme != theme {
		t.Error("NewHeader() did not set theme")
	}
}

func TestHeaderSetUnread(t *testing.T) {
	h := NewHeader(styles.NewTheme("dark"))

	h.SetUnread(3)
	if h.Unread != 3 {
		t.Errorf("SetUnread(3) Unread = %d", h.Unread)
	}
	h.SetUnread(-1)
	if h.Unread != 0 {
		t.Errorf("SetUnread(-1) Unread = %d, want 0", h.Unread)
	}
}

func TestHeaderView(t *testing.T) {
	h := NewHeader(styles.NewTheme("dark"))
	h.SetTitle("Jane Smith", "online")
	h.User = "john_doe"
	h.SetUnread(2)

	view := h.View()
	for _, want := range []string{"Jane Smith", "online", "@john_doe", "2"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q, got %q", want, view)
		}
	}
}

func TestHeaderView_BadgeCaps(t *testing.T) {
	h := NewHeader(styles.NewTheme("dark"))
	h.SetUnread(150)
	if !strings.Contains(h.View(), "99+") {
		t.Error("View() should cap the badge at 99+")
	}
}

func TestHeaderViewMinimumWidth(t *testing.T) {
	h := NewHeader(styles.NewTheme("dark"))
	h.SetWidth(10)
	h.SetTitle("A very long chat title that cannot possibly fit", "3 members")

	view := h.View()
	if view == "" {
		t.Fatal("View() should handle minimum width gracefully")
	}
	for _, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 30 {
			t.Errorf("line width %d exceeds minimum header width: %q", w, line)
		}
	}
}
