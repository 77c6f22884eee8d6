// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the chat session controller.
//
// The Controller owns a State (active conversation, status, input, feedback
// control, sidebar, modal) and changes it in response to user actions and
// server replies. Network operations are split in three steps so an event
// loop can run the middle one as a background command:
//
//	p := ctrl.BeginSubmit(text)    // guards, optimistic echo, loading
//	r := ctrl.Dispatch(ctx, p)     // network only
//	ctrl.CompleteSubmit(r)         // reply, title, feedback flag, status
//
// At most one message request is outstanding at a time; the in-flight flag
// turns any further submission into a no-op until the reply arrives.
package session
