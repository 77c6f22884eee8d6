// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/salestrainer/salestrainer-tui/internal/status"
	"github.com/salestrainer/salestrainer-tui/internal/ui/components"
)

// =============================================================================
// LAYOUT
// =============================================================================

// Fixed rows around the transcript: header, input border, status bar.
const (
	headerHeight    = 1
	inputChrome     = 1
	statusBarHeight = 1
)

// layout sizes the viewport, input and overlays for the current window.
func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.statusBar.SetWidth(m.width)
	m.modal.SetSize(m.width, m.height)

	transcriptWidth := m.width
	if m.theme.ShowSidebar() {
		transcriptWidth -= components.SidebarWidth
	}
	if transcriptWidth < 1 {
		transcriptWidth = 1
	}

	inputWidth := m.width - m.theme.InputContainer.GetHorizontalFrameSize()
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.SetWidth(inputWidth)

	transcriptHeight := m.height - headerHeight - inputChrome - m.input.Height() - statusBarHeight
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}
	m.viewport.Width = transcriptWidth
	m.viewport.Height = transcriptHeight

	w, h := m.modal.BodySize()
	m.modalBody.Width = w
	m.modalBody.Height = h
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen.
func (m Model) View() string {
	var view string
	switch {
	case m.screen == ScreenLanding:
		view = m.landing.View()
	case m.controller.State().Modal.IsActive():
		view = m.modal.View(m.modalBody.View())
	default:
		view = m.renderChat()
	}
	return m.overlayToasts(view)
}

// renderChat renders header, transcript (with sidebar when wide), input and
// status bar.
func (m Model) renderChat() string {
	state := m.controller.State()

	title := m.theme.HeaderTitle.Render("Sales Trainer")
	if state.Conversation != nil {
		title += "  " + m.theme.HeaderSubtitle.Render(state.Title())
	}
	header := m.theme.Header.Width(m.width).MaxHeight(headerHeight).Render(title)

	body := m.viewport.View()
	if m.theme.ShowSidebar() {
		sidebar := components.RenderSidebar(m.theme, state.Sidebar, state.ConversationID(), m.viewport.Height)
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, body)
	}

	inputStyle := m.theme.InputContainer
	if !state.Input.Enabled {
		inputStyle = m.theme.InputContainerDisabled
	}
	input := inputStyle.Width(m.width).Render(m.input.View())

	m.statusBar.SetIndicator(state.Status)
	m.statusBar.Spinner = ""
	if state.Status.State() == status.Loading {
		m.statusBar.Spinner = m.spinner.View()
	}
	m.statusBar.FeedbackEnabled = state.FeedbackEnabled
	m.statusBar.VoiceAvailable = m.adapter.Available()
	m.statusBar.Recording = m.recording
	m.statusBar.ModalOpen = false

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, m.statusBar.View())
}

// overlayToasts draws live toasts over the bottom-right of view, just above
// the status bar row.
func (m Model) overlayToasts(view string) string {
	toasts := m.toasts.Toasts()
	if len(toasts) == 0 {
		return view
	}

	stack := strings.Split(components.RenderToastStack(m.theme, toasts, m.width, 0), "\n")
	lines := strings.Split(view, "\n")

	start := len(lines) - statusBarHeight - len(stack)
	if start < 0 {
		start = 0
	}
	for i, line := range stack {
		if start+i >= len(lines) {
			break
		}
		lines[start+i] = lipgloss.PlaceHorizontal(m.width, lipgloss.Right, line)
	}
	return strings.Join(lines, "\n")
}
