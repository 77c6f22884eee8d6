// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/config"
	"github.com/salestrainer/salestrainer-tui/internal/feedback"
	"github.com/salestrainer/salestrainer-tui/internal/session"
	"github.com/salestrainer/salestrainer-tui/internal/voice"
)

// Client is the part of the API client the chat screen uses.
type Client interface {
	session.Transport
	StartConversation(ctx context.Context) (*api.ChatPage, error)
	OpenConversation(ctx context.Context, id string) (*api.ChatPage, error)
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// dispatchCmd sends a pending message off the UI goroutine.
func dispatchCmd(ctx context.Context, c *session.Controller, p *session.PendingMessage) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Result: c.Dispatch(ctx, p)}
	}
}

// fetchFeedbackCmd requests the feedback report off the UI goroutine.
func fetchFeedbackCmd(ctx context.Context, c *session.Controller, p *session.PendingFeedback) tea.Cmd {
	return func() tea.Msg {
		return FeedbackMsg{Result: c.FetchFeedback(ctx, p)}
	}
}

// startConversationCmd asks the server for a fresh conversation.
func startConversationCmd(ctx context.Context, client Client) tea.Cmd {
	return func() tea.Msg {
		page, err := client.StartConversation(ctx)
		return PageMsg{Page: page, Err: err}
	}
}

// openConversationCmd loads an existing conversation with its history.
func openConversationCmd(ctx context.Context, client Client, id string) tea.Cmd {
	return func() tea.Msg {
		page, err := client.OpenConversation(ctx, id)
		return PageMsg{Page: page, Err: err}
	}
}

// deleteConversationCmd deletes a conversation on the server.
func deleteConversationCmd(ctx context.Context, client Client, id string) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: client.DeleteConversation(ctx, id)}
	}
}

// exportCmd writes the plain report text to dir.
func exportCmd(dir string, text string) tea.Cmd {
	return func() tea.Msg {
		path, err := feedback.WriteReport(dir, time.Now(), text)
		return ExportedMsg{Path: path, Err: err}
	}
}

// waitVoiceCmd waits for the next recognizer event.
func waitVoiceCmd(events <-chan voice.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return voiceClosedMsg{}
		}
		return VoiceEventMsg{Event: ev}
	}
}

// submitDueCmd fires SubmitDueMsg after the voice auto-submit delay.
func submitDueCmd(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return SubmitDueMsg{Gen: gen}
	})
}

// =============================================================================
// CONFIG WATCH
// =============================================================================

// configWatcher turns config.Watch callbacks into messages.
type configWatcher struct {
	updates chan ConfigReloadedMsg
}

// startConfigWatch watches path until ctx ends. It returns nil when the
// watch cannot be set up; the TUI runs fine without hot reload.
func startConfigWatch(ctx context.Context, path string) *configWatcher {
	if path == "" {
		return nil
	}
	w := &configWatcher{updates: make(chan ConfigReloadedMsg, 1)}
	err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
		// Keep only the newest result if the UI has not caught up.
		select {
		case <-w.updates:
		default:
		}
		w.updates <- ConfigReloadedMsg{Config: cfg, Err: err}
	})
	if err != nil {
		return nil
	}
	return w
}

// wait returns a command that delivers the next reload.
func (w *configWatcher) wait() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		return <-w.updates
	}
}
