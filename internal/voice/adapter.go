// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/salestrainer/salestrainer-tui/internal/config"
)

var (
	// ErrUnavailable means no speech recognizer can run here. It is not
	// shown to the user; the voice control is hidden instead.
	ErrUnavailable = errors.New("speech recognition unavailable")

	// ErrPermissionDenied means the capture device refused access.
	ErrPermissionDenied = errors.New("microphone permission denied")
)

// Recognizer is a continuous speech recognizer with interim results.
// Events reports results, errors and the end of each run on one channel
// that lives as long as the recognizer.
//
// Every Start that succeeds is followed by one EventEnded, after the run's
// last EventResult, unless a newer Start replaces the run. Stop must not
// prevent it.
type Recognizer interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

// FromConfig builds the configured recognizer. It returns nil when voice is
// disabled or the backend cannot run, which leaves the adapter inert.
func FromConfig(cfg config.VoiceConfig) Recognizer {
	if !cfg.Enabled {
		return nil
	}

	var (
		rec Recognizer
		err error
	)
	switch cfg.Backend {
	case "whisper":
		rec, err = NewWhisperRecognizer(WhisperConfig{
			CaptureCommand: cfg.CaptureCommand,
			APIKey:         cfg.OpenAIAPIKey,
			Language:       cfg.Language,
			Interval:       cfg.Interval(),
		})
	default:
		rec, err = NewCommandRecognizer(cfg.Command)
	}
	if err != nil {
		log.Printf("VOICE_UNAVAILABLE | backend=%s err=%v", cfg.Backend, err)
		return nil
	}
	return rec
}

// Adapter drives a Recognizer through the capture state machine. It
// performs the recognizer effects itself and hands every other effect back
// to the caller. It is not safe for concurrent use; call it from the event
// loop that owns the input field.
type Adapter struct {
	rec   Recognizer
	state State
	delay time.Duration
}

// NewAdapter wraps rec. A nil rec gives an inert adapter. delay <= 0 uses
// config.DefaultSubmitDelay.
func NewAdapter(rec Recognizer, delay time.Duration) *Adapter {
	if delay <= 0 {
		delay = config.DefaultSubmitDelay
	}
	return &Adapter{rec: rec, delay: delay}
}

// Available reports whether a recognizer exists. When false the voice
// control should be hidden.
func (a *Adapter) Available() bool {
	return a.rec != nil
}

// State returns the current capture state.
func (a *Adapter) State() State {
	return a.state
}

// Recording reports whether capture is running.
func (a *Adapter) Recording() bool {
	return a.state == Recording
}

// SubmitDelay is how long after an explicit stop the caller should deliver
// EventSubmitDue.
func (a *Adapter) SubmitDelay() time.Duration {
	return a.delay
}

// Events returns the recognizer's event channel, or nil when inert.
func (a *Adapter) Events() <-chan Event {
	if a.rec == nil {
		return nil
	}
	return a.rec.Events()
}

// Toggle starts capture when idle and stops it when recording.
func (a *Adapter) Toggle(ctx context.Context) []Effect {
	if a.state == Recording {
		return a.Handle(ctx, Event{Kind: EventStop})
	}
	return a.Handle(ctx, Event{Kind: EventStart})
}

// Shutdown ends a capture in progress without scheduling a submit and
// returns the effects for the caller, as an Ended event would.
func (a *Adapter) Shutdown() []Effect {
	if a.rec == nil || a.state != Recording {
		return nil
	}
	effects := a.Handle(context.Background(), Event{Kind: EventEnded})
	if err := a.rec.Stop(); err != nil {
		log.Printf("VOICE_STOP_FAILED | err=%v", err)
	}
	return effects
}

// Handle feeds ev to the state machine and returns the effects the caller
// must apply: indicators, input text, scheduling, submission and errors.
func (a *Adapter) Handle(ctx context.Context, ev Event) []Effect {
	if a.rec == nil {
		return nil
	}

	from := a.state
	next, effects := Transition(a.state, ev)
	a.state = next
	if from != next {
		log.Printf("VOICE_STATE | from=%s to=%s event=%s", from, next, ev.Kind)
	}

	var out []Effect
	for _, eff := range effects {
		switch eff.Kind {
		case EffectStartRecognizer:
			if err := a.rec.Start(ctx); err != nil {
				code := CodeAudioCapture
				if errors.Is(err, ErrPermissionDenied) {
					code = CodeNotAllowed
				}
				log.Printf("VOICE_START_FAILED | err=%v code=%s", err, code)
				// Indicators were never turned on for the caller.
				return a.Handle(ctx, Event{Kind: EventError, Code: code})
			}
		case EffectStopRecognizer:
			if err := a.rec.Stop(); err != nil {
				log.Printf("VOICE_STOP_FAILED | err=%v", err)
			}
		default:
			out = append(out, eff)
		}
	}
	return out
}
