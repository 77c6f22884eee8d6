// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import "strings"

// DefaultTitle is the placeholder title a conversation carries until one is
// derived from the first user message.
const DefaultTitle = "New Conversation"

// titleWords is the number of leading words kept in a derived title.
const titleWords = 5

// minTitleWords is exclusive: a message needs more words than this to name
// the conversation.
const minTitleWords = 2

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds the client's view of one server-side conversation.
// It exists only for the lifetime of the process.
type Conversation struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Messages []*Message `json:"messages"`
}

// NewConversation creates a conversation for a server-issued identifier.
func NewConversation(id string) *Conversation {
	return &Conversation{
		ID:       id,
		Title:    DefaultTitle,
		Messages: make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// HasDefaultTitle reports whether the title is still the placeholder.
func (c *Conversation) HasDefaultTitle() bool {
	return c.Title == "" || c.Title == DefaultTitle
}

// =============================================================================
// TITLES
// =============================================================================

// DeriveTitle builds a conversation title from a user message: the first five
// whitespace-separated words joined by single spaces, followed by "...".
// Messages of two words or fewer do not produce a title.
func DeriveTitle(text string) (string, bool) {
	words := strings.Fields(text)
	if len(words) <= minTitleWords {
		return "", false
	}
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ") + "...", true
}
