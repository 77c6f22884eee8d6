// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"strings"
	"testing"
)

func TestParseChatPage(t *testing.T) {
	const doc = `<!DOCTYPE html>
<html><head>
  <meta charset="utf-8">
  <meta name="csrf-token" content="abc123">
</head><body>
  <nav>
    <a class="conversation-item active" data-id="7" href="/chat/?conversation=7">
      <span class="conversation-title">Budget   objections</span>
      <span class="date">Mon</span>
    </a>
    <a class="conversation-item" data-id="9">New Conversation</a>
  </nav>
  <section class="chat" data-conversation-id="7"></section>
</body></html>`

	page, err := ParseChatPage(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseChatPage() error = %v", err)
	}

	if page.CSRFToken != "abc123" {
		t.Errorf("CSRFToken = %q", page.CSRFToken)
	}
	if page.ConversationID != "7" {
		t.Errorf("ConversationID = %q", page.ConversationID)
	}
	if len(page.Conversations) != 2 {
		t.Fatalf("Conversations = %+v", page.Conversations)
	}
	if page.Conversations[0].Title != "Budget objections" {
		t.Errorf("first title = %q", page.Conversations[0].Title)
	}
	if page.Title("9") != "New Conversation" {
		t.Errorf("Title(9) = %q", page.Title("9"))
	}
	if page.Title("missing") != "" {
		t.Error("Title of an unknown id should be empty")
	}
}

func TestParseChatPage_History(t *testing.T) {
	const doc = `<main data-conversation-id="3">
  <div class="message user-message" data-role="user" data-timestamp="2024-03-05T14:07:00.000000">
    <div class="message-content">Hi, is this a good time?</div>
    <div class="message-time">2:07 PM</div>
  </div>
  <div class="message assistant-message" data-role="assistant">
    <div class="message-content">
### Objection
- Busy right now
    </div>
  </div>
  <div class="message" data-role="system"><div class="message-content">ignored</div></div>
</main>`

	page, err := ParseChatPage(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Messages) != 2 {
		t.Fatalf("Messages = %+v", page.Messages)
	}
	if page.Messages[0].Content != "Hi, is this a good time?" || page.Messages[0].Timestamp != "2024-03-05T14:07:00.000000" {
		t.Errorf("first message = %+v", page.Messages[0])
	}
	if page.Messages[1].Content != "### Objection\n- Busy right now" {
		t.Errorf("assistant content = %q", page.Messages[1].Content)
	}
	if page.Messages[0].ID == "" || page.Messages[0].ID == page.Messages[1].ID {
		t.Error("history messages need distinct client ids")
	}
}

func TestParseChatPage_HiddenInputToken(t *testing.T) {
	const doc = `<form><input type="hidden" name="csrf_token" value="fromform"></form>`

	page, err := ParseChatPage(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if page.CSRFToken != "fromform" {
		t.Errorf("CSRFToken = %q, want fromform", page.CSRFToken)
	}
}

func TestClientError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ClientError{Type: ErrTypeTransport, Message: "request failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("ClientError should unwrap to its cause")
	}
	if err.Error() != "request failed: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := &ClientError{Type: ErrTypeAuth, Message: "not logged in"}
	if !errors.Is(wrapped, ErrNotAuthenticated) {
		t.Error("auth error should match ErrNotAuthenticated")
	}

	if got := UserMessage(errors.New("plain"), "fallback"); got != "fallback" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	if TypeOf(nil) != ErrTypeUnknown {
		t.Error("TypeOf(nil) should be unknown")
	}
}
