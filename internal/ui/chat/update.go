// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/config"
	"github.com/salestrainer/salestrainer-tui/internal/feedback"
	"github.com/salestrainer/salestrainer-tui/internal/markup"
	"github.com/salestrainer/salestrainer-tui/internal/ui/components"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
	"github.com/salestrainer/salestrainer-tui/internal/voice"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages. All session state changes happen here; network
// calls run as commands and report back as messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case components.LandingTickMsg:
		var cmd tea.Cmd
		m.landing, cmd = m.landing.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ReplyMsg:
		return m.handleReply(msg)

	case FeedbackMsg:
		return m.handleFeedback(msg)

	case PageMsg:
		return m.handlePage(msg)

	case DeletedMsg:
		m.controller.CompleteDelete(msg.ID, msg.Err)
		if msg.Err == nil {
			m.toasts.AddSuccess("Conversation deleted")
		}
		m.refreshTranscript()
		return m, nil

	case VoiceEventMsg:
		ev := msg.Event
		ev.Input = m.input.Value()
		cmd := m.applyVoice(m.adapter.Handle(m.life.context(), ev))
		return m, batch([]tea.Cmd{cmd, waitVoiceCmd(m.adapter.Events())})

	case voiceClosedMsg:
		log.Printf("VOICE_EVENTS_CLOSED")
		return m, nil

	case SubmitDueMsg:
		if msg.Gen != m.submitGen {
			return m, nil
		}
		ev := voice.Event{Kind: voice.EventSubmitDue, Input: m.input.Value()}
		return m, m.applyVoice(m.adapter.Handle(m.life.context(), ev))

	case ExportedMsg:
		if msg.Err != nil {
			m.toasts.AddError("Could not save feedback: " + msg.Err.Error())
		} else {
			m.toasts.AddSuccess("Feedback saved to " + msg.Path)
		}
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg)
		return m, m.watcher.wait()
	}

	// Anything else (cursor blink) goes to the input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.landing.SetSize(msg.Width, msg.Height)
	m.layout()
	m.refreshTranscript()
	m.refreshModal()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.Shutdown()
		return m, tea.Quit
	}

	if m.screen == ScreenLanding {
		if key.Matches(msg, m.keyMap.Submit) {
			return m, m.startConversation()
		}
		var cmd tea.Cmd
		m.landing, cmd = m.landing.Update(msg)
		return m, cmd
	}

	state := m.controller.State()
	if state.Modal.IsActive() {
		return m.handleModalKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m, m.submit(m.input.Value())

	case key.Matches(msg, m.keyMap.Voice):
		if !m.adapter.Available() {
			return m, nil
		}
		return m, m.applyVoice(m.adapter.Toggle(m.life.context()))

	case key.Matches(msg, m.keyMap.Feedback):
		p := m.controller.BeginFeedback()
		if p == nil {
			return m, nil
		}
		return m, fetchFeedbackCmd(m.life.context(), m.controller, p)

	case key.Matches(msg, m.keyMap.New):
		return m, m.startConversation()

	case key.Matches(msg, m.keyMap.NextChat):
		return m, m.openNext()

	case key.Matches(msg, m.keyMap.DeleteChat):
		id := state.ConversationID()
		if id == "" {
			return m, nil
		}
		return m, deleteConversationCmd(m.life.context(), m.client, id)

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	// The input is disabled while a reply is outstanding.
	if !state.Input.Enabled || state.Conversation == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.controller.SetInput(m.input.Value())
	m.fitInput()
	return m, cmd
}

// handleModalKey handles keys while the feedback modal holds the scroll lock.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal := m.controller.State().Modal

	switch {
	case key.Matches(msg, m.keyMap.Close):
		modal.HandleEscape()
		return m, nil

	case key.Matches(msg, m.keyMap.Save):
		text := modal.PlainText()
		if strings.TrimSpace(text) == "" {
			m.toasts.AddError(feedback.ErrNothingToExport.Error())
			return m, nil
		}
		return m, exportCmd(m.exportDir, text)

	case key.Matches(msg, m.keyMap.ModalUp):
		m.modalBody.LineUp(1)
	case key.Matches(msg, m.keyMap.ModalDown):
		m.modalBody.LineDown(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.modalBody.ViewUp()
	case key.Matches(msg, m.keyMap.PageDown):
		m.modalBody.ViewDown()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	modal := m.controller.State().Modal

	if modal.IsActive() {
		switch msg.Type {
		case tea.MouseLeft:
			modal.HandleClick(m.modal.HitTest(msg.X, msg.Y))
		case tea.MouseWheelUp:
			m.modalBody.LineUp(3)
		case tea.MouseWheelDown:
			m.modalBody.LineDown(3)
		}
		return m, nil
	}

	if m.screen != ScreenChat {
		return m, nil
	}
	switch msg.Type {
	case tea.MouseWheelUp:
		m.viewport.LineUp(3)
	case tea.MouseWheelDown:
		m.viewport.LineDown(3)
	}
	return m, nil
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	m.controller.CompleteSubmit(msg.Result)
	m.refreshTranscript()
	return m, m.syncInput()
}

func (m Model) handleFeedback(msg FeedbackMsg) (tea.Model, tea.Cmd) {
	m.controller.CompleteFeedback(msg.Result)
	if m.controller.State().Modal.IsActive() {
		m.refreshModal()
		m.modalBody.GotoTop()
	}
	return m, nil
}

func (m Model) handlePage(msg PageMsg) (tea.Model, tea.Cmd) {
	m.opening = false
	if msg.Err == nil && (msg.Page == nil || msg.Page.ConversationID == "") {
		msg.Err = &api.ClientError{Type: api.ErrTypeDecode, Message: "page named no conversation"}
	}
	if msg.Err != nil {
		text := api.UserMessage(msg.Err, openFailedMessage)
		m.controller.State().Status.SetError(text)
		if m.screen == ScreenLanding {
			m.toasts.AddError(text)
		}
		log.Printf("CONVERSATION_OPEN_FAILED | type=%s err=%v", api.TypeOf(msg.Err), msg.Err)
		return m, nil
	}

	m.screen = ScreenChat
	m.controller.OpenPage(msg.Page)
	m.input.Reset()
	m.fitInput()
	m.refreshTranscript()
	return m, m.syncInput()
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit hands text to the controller and dispatches the request. It does
// nothing when the controller refuses the text.
func (m *Model) submit(text string) tea.Cmd {
	p := m.controller.BeginSubmit(text)
	if p == nil {
		return nil
	}
	m.syncInput()
	m.refreshTranscript()
	return dispatchCmd(m.life.context(), m.controller, p)
}

// startConversation requests a fresh conversation page.
func (m *Model) startConversation() tea.Cmd {
	if m.opening {
		return nil
	}
	m.opening = true
	m.controller.State().Status.SetLoading()
	return startConversationCmd(m.life.context(), m.client)
}

// openNext opens the sidebar entry after the active conversation.
func (m *Model) openNext() tea.Cmd {
	state := m.controller.State()
	if m.opening || len(state.Sidebar) == 0 {
		return nil
	}

	next := 0
	for i, e := range state.Sidebar {
		if e.ID == state.ConversationID() {
			next = (i + 1) % len(state.Sidebar)
			break
		}
	}
	id := state.Sidebar[next].ID
	if id == state.ConversationID() {
		return nil
	}

	m.opening = true
	m.controller.State().Status.SetLoading()
	return openConversationCmd(m.life.context(), m.client, id)
}

// applyVoice carries out the effects of a voice transition.
func (m *Model) applyVoice(effects []voice.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff.Kind {
		case voice.EffectIndicatorsOn:
			m.recording = true
			m.input.Placeholder = listeningPlaceholder
		case voice.EffectIndicatorsOff:
			m.recording = false
			m.input.Placeholder = inputPlaceholder
		case voice.EffectSetInput:
			// A request in flight owns the cleared input.
			if !m.controller.State().Input.Enabled {
				log.Printf("VOICE_RESULT_DROPPED | reason=input_disabled")
				continue
			}
			m.input.SetValue(eff.Text)
			m.controller.SetInput(eff.Text)
			m.fitInput()
		case voice.EffectScheduleSubmit:
			m.submitGen++
			cmds = append(cmds, submitDueCmd(m.adapter.SubmitDelay(), m.submitGen))
		case voice.EffectSubmit:
			cmds = append(cmds, m.submit(eff.Text))
		case voice.EffectShowError:
			m.controller.State().Status.SetError(eff.Text)
		}
	}
	return batch(cmds)
}

// applyConfig takes the settings that can change while running.
func (m *Model) applyConfig(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		var verr config.ValidateErrors
		if errors.As(msg.Err, &verr) && len(verr) > 0 {
			m.toasts.AddError("Config not reloaded: " + verr[0].Error())
		} else {
			m.toasts.AddError("Config not reloaded: " + msg.Err.Error())
		}
		return
	}

	cfg := msg.Config

	*m.theme = *styles.NewThemeFor(cfg.UI.Theme)
	m.spinner.Style = m.theme.StatusLoading
	m.locale = markup.ResolveLocale(cfg.UI.Locale)
	m.richText = cfg.UI.RichText
	m.exportDir = cfg.Feedback.ExportDir

	m.layout()
	m.refreshTranscript()
	m.refreshModal()
	m.toasts.AddStatus("Settings reloaded")
}

// =============================================================================
// VIEW STATE SYNC
// =============================================================================

// syncInput mirrors the controller's input state into the text area.
func (m *Model) syncInput() tea.Cmd {
	in := m.controller.State().Input
	if m.input.Value() != in.Text {
		m.input.SetValue(in.Text)
	}
	m.fitInput()

	if !in.Enabled {
		m.input.Blur()
		return nil
	}
	if in.Focused && !m.input.Focused() {
		return m.input.Focus()
	}
	return nil
}

// fitInput grows the input with its content up to maxInputHeight.
func (m *Model) fitInput() {
	lines := m.input.LineCount()
	if lines > maxInputHeight {
		lines = maxInputHeight
	}
	m.controller.SetInputHeight(lines)

	h := m.controller.State().Input.Height
	if h != m.input.Height() {
		m.input.SetHeight(h)
		m.layout()
	}
}

// refreshTranscript re-renders the conversation into the viewport.
func (m *Model) refreshTranscript() {
	state := m.controller.State()
	if state.Conversation == nil {
		m.viewport.SetContent(m.theme.InputPlaceholder.Render("No conversation open. Press ctrl+n to start one."))
		return
	}

	content := components.RenderTranscript(m.theme, state.Messages(), m.viewport.Width-1, m.locale, m.richText)
	if state.InFlight {
		content += "\n\n" + m.theme.MessageTime.Render("Prospect is typing...")
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// refreshModal renders the feedback text for the modal body.
func (m *Model) refreshModal() {
	modal := m.controller.State().Modal
	w, h := m.modal.BodySize()
	m.modalBody.Width = w
	m.modalBody.Height = h
	if !modal.IsActive() {
		return
	}

	r := &markup.TerminalRenderer{Width: w, Styles: m.theme.MarkupStyles()}
	m.modalBody.SetContent(r.Render(modal.Document()))
}
