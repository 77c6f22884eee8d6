// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types the chat model receives:
//   - Requests: chat replies, feedback reports, conversation pages, deletes
//   - Voice: recognizer events and the delayed auto-submit
//   - Files: feedback export results
//   - Config: hot reload results
package chat

import (
	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/config"
	"github.com/salestrainer/salestrainer-tui/internal/session"
	"github.com/salestrainer/salestrainer-tui/internal/voice"
)

// =============================================================================
// REQUEST MESSAGES
// =============================================================================

// ReplyMsg carries the outcome of sending a chat message.
type ReplyMsg struct {
	Result session.MessageResult
}

// FeedbackMsg carries the outcome of a feedback request.
type FeedbackMsg struct {
	Result session.FeedbackResult
}

// PageMsg carries a conversation page fetched from the server.
type PageMsg struct {
	Page *api.ChatPage
	Err  error
}

// DeletedMsg carries the outcome of deleting a conversation.
type DeletedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// VOICE MESSAGES
// =============================================================================

// VoiceEventMsg forwards one recognizer event into the event loop.
type VoiceEventMsg struct {
	Event voice.Event
}

// voiceClosedMsg reports that the recognizer closed its event channel.
type voiceClosedMsg struct{}

// SubmitDueMsg fires when the voice auto-submit delay has elapsed. Gen
// matches the stop that scheduled it.
type SubmitDueMsg struct {
	Gen int
}

// =============================================================================
// FILE MESSAGES
// =============================================================================

// ExportedMsg carries the outcome of saving the feedback report.
type ExportedMsg struct {
	Path string
	Err  error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a configuration reloaded from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
