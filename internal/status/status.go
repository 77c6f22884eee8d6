// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package status tracks the single live session status shown in the status bar.
package status

import "time"

// State is the session status. Exactly one is live at a time.
type State int

const (
	Ready State = iota
	Loading
	Error
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Loading:
		return "loading"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Label returns the default display text for the state.
func (s State) Label() string {
	switch s {
	case Ready:
		return "Ready"
	case Loading:
		return "Thinking..."
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape for the state. Shapes differ so the states read
// without color.
func (s State) Icon() string {
	switch s {
	case Ready:
		return "●"
	case Loading:
		return "○"
	case Error:
		return "✗"
	default:
		return "?"
	}
}

// Indicator holds the current state and an optional message. The zero
// value is Ready.
type Indicator struct {
	state   State
	message string
	since   time.Time
}

// New returns an indicator in the Ready state.
func New() *Indicator {
	return &Indicator{state: Ready, since: time.Now()}
}

// Set replaces the state and clears any message.
func (i *Indicator) Set(s State) {
	i.state = s
	i.message = ""
	i.since = time.Now()
}

// SetReady is Set(Ready).
func (i *Indicator) SetReady() { i.Set(Ready) }

// SetLoading is Set(Loading).
func (i *Indicator) SetLoading() { i.Set(Loading) }

// SetError moves to Error with a message that stays until the next change.
func (i *Indicator) SetError(msg string) {
	i.Set(Error)
	i.message = msg
}

// State returns the live state.
func (i *Indicator) State() State { return i.state }

// Message returns the error message, empty outside Error.
func (i *Indicator) Message() string { return i.message }

// Since returns when the state last changed.
func (i *Indicator) Since() time.Time { return i.since }

// Text returns the icon and label, or the error message in Error.
func (i *Indicator) Text() string {
	label := i.state.Label()
	if i.state == Error && i.message != "" {
		label = i.message
	}
	return i.state.Icon() + " " + label
}
