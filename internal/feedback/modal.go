// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feedback holds the feedback modal: its open/closed state, the
// report it shows, and the plain-text export of that report.
package feedback

import (
	"github.com/salestrainer/salestrainer-tui/internal/markup"
)

// Target is where a click landed while the modal was open.
type Target int

const (
	// TargetBackdrop is anywhere outside the modal content.
	TargetBackdrop Target = iota
	// TargetContent is inside the modal content.
	TargetContent
	// TargetOpener is the control that opened the modal.
	TargetOpener
	// TargetClose is the modal's close control.
	TargetClose
)

// Modal is the feedback modal. The zero value is closed.
// It is not safe for concurrent use.
type Modal struct {
	active     bool
	scrollLock bool
	text       string
}

// New returns a closed modal.
func New() *Modal {
	return &Modal{}
}

// Open shows text and locks the page behind the modal.
func (m *Modal) Open(text string) {
	m.text = text
	m.active = true
	m.scrollLock = true
}

// Close hides the modal and releases the scroll lock. Closing a closed
// modal does nothing.
func (m *Modal) Close() {
	m.active = false
	m.scrollLock = false
}

// HandleClick closes the modal for clicks on the close control or on the
// backdrop. Clicks inside the content or on the opener are ignored; the
// opener click is the one that just opened it. It reports whether the
// modal closed.
func (m *Modal) HandleClick(target Target) bool {
	if !m.active {
		return false
	}
	switch target {
	case TargetClose, TargetBackdrop:
		m.Close()
		return true
	default:
		return false
	}
}

// HandleEscape closes the modal; it reports whether it was open.
func (m *Modal) HandleEscape() bool {
	if !m.active {
		return false
	}
	m.Close()
	return true
}

// IsActive reports whether the modal is shown.
func (m *Modal) IsActive() bool { return m.active }

// ScrollLocked reports whether the view behind the modal is locked.
func (m *Modal) ScrollLocked() bool { return m.scrollLock }

// Text returns the raw report text.
func (m *Modal) Text() string { return m.text }

// Document returns the report parsed with assistant markup, whoever wrote it.
func (m *Modal) Document() markup.Document {
	return markup.Parse(m.text)
}

// PlainText returns the report with markup stripped.
func (m *Modal) PlainText() string {
	return markup.Plain(m.Document())
}
