// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file holds the context that outbound requests and the recognizer
// run under. Requests have no timeout of their own; they end when the
// program quits.
package chat

import (
	"context"
	"sync"
)

// =============================================================================
// LIFETIME CONTEXT (THREAD-SAFE)
// =============================================================================

// lifetime owns the context every command derives from. Commands read it
// from their own goroutines, so access is locked.
// IMPORTANT: This must be used as a pointer (*lifetime) in Model structs to
// avoid copying the mutex when Bubble Tea's Update returns model copies.
type lifetime struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// newLifetime derives a cancellable context from parent.
func newLifetime(parent context.Context) *lifetime {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &lifetime{ctx: ctx, cancel: cancel}
}

// context returns the shared context.
func (l *lifetime) context() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctx
}

// stop cancels the shared context. Safe to call more than once.
func (l *lifetime) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
