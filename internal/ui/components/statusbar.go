// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/salestrainer/salestrainer-tui/internal/status"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
	"github.com/salestrainer/salestrainer-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the bottom line: session status on the left, voice
// and shortcut hints on the right.
type StatusBar struct {
	Width int

	State   status.State
	Message string

	// Spinner replaces the loading icon when set.
	Spinner string

	FeedbackEnabled bool
	VoiceAvailable  bool
	Recording       bool
	ModalOpen       bool

	theme *styles.Theme
}

// NewStatusBar creates a status bar in the Ready state.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Width: 80}
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetIndicator copies the state and message from the session indicator.
func (s *StatusBar) SetIndicator(ind *status.Indicator) {
	s.State = ind.State()
	s.Message = ind.Message()
}

// View renders the status bar
func (s *StatusBar) View() string {
	inner := s.Width - s.theme.StatusBar.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	left := s.renderStatus(inner)
	right := s.renderShortcuts()
	if s.Recording {
		right = s.theme.VoiceRecording.Render("REC") + " " + right
	}

	// Narrow terminals drop the shortcuts before the status.
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = inner - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}

	return s.theme.StatusBar.
		Width(s.Width).
		Render(left + strings.Repeat(" ", gap) + right)
}

// renderStatus renders the icon and label, or the error text, in at most
// width columns.
func (s *StatusBar) renderStatus(width int) string {
	icon := s.theme.StatusIcon(s.State)
	if s.State == status.Loading && s.Spinner != "" {
		icon = s.Spinner
	}

	label := s.State.Label()
	if s.State == status.Error && s.Message != "" {
		label = s.Message
	}
	return s.theme.StatusStyle(s.State).Render(util.TruncateWidth(icon+" "+label, width))
}

// renderShortcuts renders keyboard shortcut hints
func (s *StatusBar) renderShortcuts() string {
	if s.ModalOpen {
		return s.hint("esc", "close", true) + " " + s.hint("^s", "save", true)
	}

	hints := []string{s.hint("enter", "send", true)}
	if s.VoiceAvailable {
		desc := "voice"
		if s.Recording {
			desc = "stop"
		}
		hints = append(hints, s.hint("^r", desc, true))
	}
	hints = append(hints,
		s.hint("^f", "feedback", s.FeedbackEnabled),
		s.hint("^n", "new", true),
		s.hint("^c", "quit", true),
	)
	return strings.Join(hints, " ")
}

// hint renders one key/description pair. Disabled hints are struck through.
func (s *StatusBar) hint(key, desc string, enabled bool) string {
	if !enabled {
		return s.theme.ShortcutOff.Render(key + " " + desc)
	}
	return s.theme.ShortcutKey.Render(key) + " " + s.theme.ShortcutDesc.Render(desc)
}
