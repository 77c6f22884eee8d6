// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/salestrainer/salestrainer-tui/internal/feedback"
	"github.com/salestrainer/salestrainer-tui/internal/model"
	"github.com/salestrainer/salestrainer-tui/internal/status"
)

// MinInputHeight is the input height, in lines, after a reset.
const MinInputHeight = 1

// Input is the message input control.
type Input struct {
	Text    string
	Enabled bool
	Height  int
	Focused bool
}

// SidebarEntry is one conversation listed beside the chat.
type SidebarEntry struct {
	ID    string
	Title string
}

// State is everything the chat view shows. The Controller owns it; views
// read it and never write it.
type State struct {
	// Conversation is the active conversation, nil when none is open.
	Conversation *model.Conversation

	Status *status.Indicator
	Input  Input

	// FeedbackEnabled is the feedback control's enabled flag.
	FeedbackEnabled bool

	Sidebar []SidebarEntry

	// InFlight is set while a message request is outstanding.
	InFlight bool

	Modal *feedback.Modal
}

func newState() *State {
	return &State{
		Status: status.New(),
		Input:  Input{Enabled: true, Height: MinInputHeight, Focused: true},
		Modal:  feedback.New(),
	}
}

// ConversationID returns the active conversation id or "".
func (s *State) ConversationID() string {
	if s.Conversation == nil {
		return ""
	}
	return s.Conversation.ID
}

// Messages returns the rendered messages of the active conversation.
func (s *State) Messages() []*model.Message {
	if s.Conversation == nil {
		return nil
	}
	return s.Conversation.Messages
}

// Title returns the active conversation title or "".
func (s *State) Title() string {
	if s.Conversation == nil {
		return ""
	}
	return s.Conversation.Title
}
