// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"empty", "", "", false},
		{"one word", "hello", "", false},
		{"two words", "hello there", "", false},
		{"three words", "I sell software", "I sell software...", true},
		{"exactly five", "I sell CRM to dentists", "I sell CRM to dentists...", true},
		{"more than five", "I sell CRM software to dental clinics", "I sell CRM software to...", true},
		{"collapses whitespace", "  I   sell\tCRM\n\nsoftware  ", "I sell CRM software...", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DeriveTitle(tc.input)
			if ok != tc.wantOK {
				t.Fatalf("DeriveTitle(%q) ok = %v, want %v", tc.input, ok, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNewConversation(t *testing.T) {
	conv := NewConversation("17")

	if conv.ID != "17" {
		t.Errorf("ID = %q, want '17'", conv.ID)
	}
	if !conv.HasDefaultTitle() {
		t.Errorf("Title = %q, want default", conv.Title)
	}
	if !conv.IsEmpty() {
		t.Error("new conversation should be empty")
	}
	if conv.LastMessage() != nil {
		t.Error("LastMessage() should be nil for an empty conversation")
	}
}

func TestConversation_AddMessage(t *testing.T) {
	conv := NewConversation("1")
	user := NewUserMessage("Hi")
	reply := NewAssistantMessage("Hello, who is this?")

	conv.AddMessage(user)
	conv.AddMessage(reply)

	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount() = %d, want 2", conv.MessageCount())
	}
	if conv.LastMessage() != reply {
		t.Error("LastMessage() should return the assistant reply")
	}
	if user.ID == reply.ID {
		t.Error("messages should get distinct client ids")
	}
}

func TestNewMessage_Timestamp(t *testing.T) {
	msg := NewUserMessage("Hi")

	if _, err := time.Parse(time.RFC3339Nano, msg.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", msg.Timestamp, err)
	}
	if !msg.IsUser() {
		t.Error("IsUser() should be true for a user message")
	}
}

func TestRole(t *testing.T) {
	if !RoleUser.IsValid() || !RoleAssistant.IsValid() {
		t.Error("user and assistant roles should be valid")
	}
	if Role("system").IsValid() {
		t.Error("system role is not exchanged with the server")
	}
	if RoleAssistant.DisplayName() != "Prospect" {
		t.Errorf("DisplayName() = %q, want 'Prospect'", RoleAssistant.DisplayName())
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("héllo wörld, this is long")

	if got := msg.Preview(8); got != "héllo..." {
		t.Errorf("Preview(8) = %q, want 'héllo...'", got)
	}
	if got := msg.Preview(100); got != msg.Content {
		t.Errorf("Preview(100) = %q, want full content", got)
	}
}
