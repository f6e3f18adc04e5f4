// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/palaver-tui/internal/logging"
)

// =============================================================================
// LOGIN SCREEN
// =============================================================================

// loginMethod is how the user identifies themselves. Every method resolves
// to the same demo account.
type loginMethod int

const (
	loginPhone loginMethod = iota
	loginEmail
	loginUsername
)

var loginMethods = []struct {
	label       string
	placeholder string
}{
	{"Phone", "+1 234 567 890"},
	{"Email", "you@example.com"},
	{"Username", "john_doe"},
}

// loginMsg completes the login once the store has loaded.
type loginMsg struct{}

type loginState struct {
	method   loginMethod
	identity textinput.Model
	password textinput.Model
	// focus is 0 for identity, 1 for password.
	focus int
	err   string
}

func newLoginState() loginState {
	identity := textinput.New()
	identity.Prompt = ""
	identity.CharLimit = 64
	identity.Placeholder = loginMethods[loginPhone].placeholder
	identity.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.CharLimit = 64
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginState{identity: identity, password: password}
}

func (s loginState) setMethod(method loginMethod) loginState {
	s.method = method
	s.identity.Placeholder = loginMethods[method].placeholder
	s.identity.SetValue("")
	s.err = ""
	return s
}

func (s loginState) setFocus(focus int) (loginState, tea.Cmd) {
	s.focus = focus
	var cmd tea.Cmd
	if focus == 0 {
		s.password.Blur()
		cmd = s.identity.Focus()
	} else {
		s.identity.Blur()
		cmd = s.password.Focus()
	}
	return s, cmd
}

func (s loginState) update(msg tea.Msg) (loginState, tea.Cmd) {
	var cmd tea.Cmd
	if s.focus == 0 {
		s.identity, cmd = s.identity.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

// valid reports whether both fields hold something.
func (s loginState) valid() bool {
	return strings.TrimSpace(s.identity.Value()) != "" && s.password.Value() != ""
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "esc":
		return m.quit()
	case "ctrl+left":
		m.login = m.login.setMethod((m.login.method + loginMethod(len(loginMethods)) - 1) % loginMethod(len(loginMethods)))
		return m, nil
	case "ctrl+right":
		m.login = m.login.setMethod((m.login.method + 1) % loginMethod(len(loginMethods)))
		return m, nil
	case "tab", "down":
		m.login, cmd = m.login.setFocus(1 - m.login.focus)
		return m, cmd
	case "shift+tab", "up":
		m.login, cmd = m.login.setFocus(1 - m.login.focus)
		return m, cmd
	case "enter":
		if m.login.focus == 0 {
			m.login, cmd = m.login.setFocus(1)
			return m, cmd
		}
		if !m.login.valid() {
			m.login.err = "Please fill in all fields"
			return m, nil
		}
		return m.completeLogin()
	}
	m.login.err = ""
	m.login, cmd = m.login.update(msg)
	return m, cmd
}

// completeLogin signs in as the configured demo user and opens the chat list.
func (m Model) completeLogin() (tea.Model, tea.Cmd) {
	m.self = m.defaultUser()
	m.login.identity.Blur()
	m.login.password.Blur()
	m.screen = ScreenChats
	m.header.User = m.self.Username
	m.header.SetTitle("palaver", "Chats")
	logging.Info("signed in", "user", m.self.Username, "method", loginMethods[m.login.method].label)
	return m, m.loadData()
}

func (m Model) viewLogin() string {
	t := m.theme

	tabs := make([]string, len(loginMethods))
	for i, lm := range loginMethods {
		if loginMethod(i) == m.login.method {
			tabs[i] = t.TabActive.Render(lm.label)
		} else {
			tabs[i] = t.Tab.Render(lm.label)
		}
	}

	field := func(label string, in textinput.Model, focused bool) string {
		l := t.Label.Render(label)
		if focused {
			l = t.InputPrompt.Render(label)
		}
		return l + "\n" + t.InputContainer.Render(in.View())
	}

	lines := []string{
		t.HeaderTitle.Render("palaver"),
		t.Help.Render("Sign in to continue"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		field(loginMethods[m.login.method].label, m.login.identity, m.login.focus == 0),
		field("Password", m.login.password, m.login.focus == 1),
	}
	if m.login.err != "" {
		lines = append(lines, "", t.Error.Render(m.login.err))
	}
	lines = append(lines, "", t.Help.Render("ctrl+←/→ method • tab next field • enter sign in • esc quit"))

	box := t.Box.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
