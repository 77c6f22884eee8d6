// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"github.com/salestrainer/salestrainer-tui/internal/model"
)

// StatusSuccess is the envelope status of a successful call.
const StatusSuccess = "success"

// DefaultRedirect is used when a successful auth call names no destination.
const DefaultRedirect = "/chat/dashboard"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SendMessageRequest is the body of POST /chat/<id>/message.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Envelope is the status-discriminated wrapper of every JSON response.
type Envelope struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the envelope is a success.
func (e Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// MessageResponse is returned by POST /chat/<id>/message.
type MessageResponse struct {
	Envelope
	Message *model.Message `json:"message,omitempty"`
}

// FeedbackResponse is returned by GET /chat/<id>/feedback.
type FeedbackResponse struct {
	Envelope
	Feedback string `json:"feedback"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	Envelope
	Redirect string `json:"redirect,omitempty"`
}

// envelopeCarrier lets the shared request path read the envelope of any response.
type envelopeCarrier interface {
	envelope() Envelope
}

func (e *Envelope) envelope() Envelope { return *e }

// =============================================================================
// PAGE TYPES
// =============================================================================

// ConversationEntry is one sidebar row of the chat page.
type ConversationEntry struct {
	ID    string
	Title string
}

// ChatPage is what the client reads from a server-rendered chat page.
type ChatPage struct {
	// ConversationID is the conversation the page opened, if any.
	ConversationID string

	// CSRFToken is the session's anti-forgery token, if present.
	CSRFToken string

	// Conversations lists the sidebar entries in page order.
	Conversations []ConversationEntry

	// Messages is the active conversation's history in page order.
	Messages []*model.Message
}

// Title returns the sidebar title of id, or "" when it is not listed.
func (p *ChatPage) Title(id string) string {
	for _, c := range p.Conversations {
		if c.ID == id {
			return c.Title
		}
	}
	return ""
}
