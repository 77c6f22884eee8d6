// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types shared by the session controller,
// the API client and the views.
//
// # Key Types
//
//   - Conversation: server-issued identifier, display title and message history
//   - Message: single message with role, content and timestamp
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
//	conv := model.NewConversation("42")
//	conv.AddMessage(model.NewUserMessage("Hi, I'm calling about your CRM"))
//	if title, ok := model.DeriveTitle("I sell CRM software to dentists"); ok {
//	    conv.Title = title
//	}
//
// Messages are append-only: once added to a conversation they are never
// mutated.
package model
