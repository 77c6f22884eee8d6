// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"fmt"
	"strings"
)

// =============================================================================
// STATES AND EVENTS
// =============================================================================

// State is the capture state.
type State int

const (
	// Idle means no capture is running.
	Idle State = iota
	// Recording means the recognizer is listening.
	Recording
	// Stopping follows an explicit stop: the submit delay is running and
	// the recognizer may still flush its last results.
	Stopping
	// Flushing means the submit delay has passed but the recognizer has
	// not ended yet. The submit waits for its final results.
	Flushing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Stopping:
		return "stopping"
	case Flushing:
		return "flushing"
	default:
		return "unknown"
	}
}

// EventKind identifies an Event.
type EventKind int

const (
	// EventStart is the user starting capture.
	EventStart EventKind = iota
	// EventStop is the user stopping capture.
	EventStop
	// EventEnded is the recognizer ending on its own, e.g. after silence.
	EventEnded
	// EventResult carries the recognizer's current hypotheses.
	EventResult
	// EventError carries a recognition error code.
	EventError
	// EventSubmitDue fires once the post-stop delay has elapsed.
	EventSubmitDue
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventStop:
		return "stop"
	case EventEnded:
		return "ended"
	case EventResult:
		return "result"
	case EventError:
		return "error"
	case EventSubmitDue:
		return "submit_due"
	default:
		return "unknown"
	}
}

// Event is an input to the state machine.
type Event struct {
	Kind EventKind

	// Results holds one entry per recognized segment, in order; each entry
	// lists alternatives best first. Set for EventResult.
	Results [][]string

	// Code is the recognizer error code. Set for EventError.
	Code string

	// Input is the input field text when the event fires. Set for
	// EventSubmitDue and EventEnded.
	Input string
}

// Error codes reported by recognizers. Only the permission codes get
// special handling; anything else is shown verbatim.
const (
	CodeNotAllowed        = "not-allowed"
	CodeServiceNotAllowed = "service-not-allowed"
	CodeAudioCapture      = "audio-capture"
	CodeNetwork           = "network"
	CodeNoSpeech          = "no-speech"
)

// PermissionMessage is shown when microphone access is refused.
const PermissionMessage = "Microphone access denied. Please allow microphone access to use voice input."

// ErrorMessage returns the user-facing text for a recognition error code.
func ErrorMessage(code string) string {
	if IsPermissionCode(code) {
		return PermissionMessage
	}
	return fmt.Sprintf("Speech recognition error: %s", code)
}

// IsPermissionCode reports whether code is a permission denial.
func IsPermissionCode(code string) bool {
	return code == CodeNotAllowed || code == CodeServiceNotAllowed
}

// =============================================================================
// EFFECTS
// =============================================================================

// EffectKind identifies an Effect.
type EffectKind int

const (
	EffectStartRecognizer EffectKind = iota
	EffectStopRecognizer
	EffectIndicatorsOn
	EffectIndicatorsOff
	// EffectSetInput replaces the input field with Text.
	EffectSetInput
	// EffectScheduleSubmit asks for EventSubmitDue after the submit delay.
	EffectScheduleSubmit
	// EffectSubmit submits Text as a chat message.
	EffectSubmit
	// EffectShowError surfaces Text as an error.
	EffectShowError
)

func (k EffectKind) String() string {
	switch k {
	case EffectStartRecognizer:
		return "start_recognizer"
	case EffectStopRecognizer:
		return "stop_recognizer"
	case EffectIndicatorsOn:
		return "indicators_on"
	case EffectIndicatorsOff:
		return "indicators_off"
	case EffectSetInput:
		return "set_input"
	case EffectScheduleSubmit:
		return "schedule_submit"
	case EffectSubmit:
		return "submit"
	case EffectShowError:
		return "show_error"
	default:
		return "unknown"
	}
}

// Effect is an action the caller must carry out after a transition.
type Effect struct {
	Kind EffectKind
	Text string
}

// =============================================================================
// TRANSITION
// =============================================================================

// Transition returns the next state and the effects to perform for ev.
// It has no side effects. Events that are not valid in s leave the state
// unchanged and produce no effects.
//
// After an explicit stop the input is submitted once both the submit delay
// has passed and the recognizer has ended, so late final results are
// included. Results that arrive once capture is over are dropped.
func Transition(s State, ev Event) (State, []Effect) {
	switch s {
	case Idle:
		switch ev.Kind {
		case EventStart:
			return Recording, startEffects()
		case EventSubmitDue:
			return Idle, submitInput(ev.Input)
		}

	case Recording:
		switch ev.Kind {
		case EventStop:
			return Stopping, []Effect{
				{Kind: EffectStopRecognizer},
				{Kind: EffectIndicatorsOff},
				{Kind: EffectScheduleSubmit},
			}
		case EventEnded:
			return Idle, []Effect{{Kind: EffectIndicatorsOff}}
		case EventResult:
			return Recording, []Effect{{Kind: EffectSetInput, Text: Transcript(ev.Results)}}
		case EventError:
			return Idle, []Effect{
				{Kind: EffectStopRecognizer},
				{Kind: EffectIndicatorsOff},
				{Kind: EffectShowError, Text: ErrorMessage(ev.Code)},
			}
		}

	case Stopping, Flushing:
		switch ev.Kind {
		case EventStart:
			return Recording, startEffects()
		case EventResult:
			return s, []Effect{{Kind: EffectSetInput, Text: Transcript(ev.Results)}}
		case EventEnded:
			if s == Flushing {
				return Idle, submitInput(ev.Input)
			}
			// The pending EventSubmitDue submits from Idle.
			return Idle, nil
		case EventSubmitDue:
			if s == Stopping {
				return Flushing, nil
			}
		case EventError:
			return Idle, []Effect{{Kind: EffectShowError, Text: ErrorMessage(ev.Code)}}
		}
	}

	return s, nil
}

func startEffects() []Effect {
	return []Effect{
		{Kind: EffectStartRecognizer},
		{Kind: EffectIndicatorsOn},
	}
}

// submitInput submits the trimmed input, or nothing when it is blank.
func submitInput(input string) []Effect {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil
	}
	return []Effect{{Kind: EffectSubmit, Text: text}}
}

// Transcript concatenates the top alternative of every result in order.
// Recognizers include their own spacing between segments.
func Transcript(results [][]string) string {
	var b strings.Builder
	for _, alts := range results {
		if len(alts) > 0 {
			b.WriteString(alts[0])
		}
	}
	return b.String()
}
