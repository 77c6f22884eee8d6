// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"time"
)

// Sink receives the effects of a Loop.
type Sink interface {
	SetIndicators(on bool)
	SetInput(text string)
	Input() string
	Submit(text string)
	ShowError(msg string)
}

// Loop runs an Adapter outside a UI event loop, for line-oriented
// front ends. All Sink calls happen on the goroutine running Run.
type Loop struct {
	adapter  *Adapter
	sink     Sink
	controls chan EventKind
	settled  chan struct{}
}

// NewLoop binds a to sink.
func NewLoop(a *Adapter, sink Sink) *Loop {
	return &Loop{
		adapter:  a,
		sink:     sink,
		controls: make(chan EventKind, 8),
		settled:  make(chan struct{}, 1),
	}
}

// Start requests capture.
func (l *Loop) Start() { l.controls <- EventStart }

// Stop requests an explicit stop, which submits the input once the delay
// has passed and the recognizer has ended.
func (l *Loop) Stop() { l.controls <- EventStop }

// Settled receives once an explicit stop has run its course: the input was
// submitted, or there was nothing to submit.
func (l *Loop) Settled() <-chan struct{} { return l.settled }

// Run processes controls, recognizer events and the submit timer until ctx
// is done.
func (l *Loop) Run(ctx context.Context) error {
	events := l.adapter.Events()
	var due <-chan time.Time
	stopping := false

	apply := func(effects []Effect) {
		for _, eff := range effects {
			switch eff.Kind {
			case EffectIndicatorsOn:
				l.sink.SetIndicators(true)
			case EffectIndicatorsOff:
				l.sink.SetIndicators(false)
			case EffectSetInput:
				l.sink.SetInput(eff.Text)
			case EffectScheduleSubmit:
				due = time.After(l.adapter.SubmitDelay())
				stopping = true
			case EffectSubmit:
				l.sink.Submit(eff.Text)
			case EffectShowError:
				l.sink.ShowError(eff.Text)
			}
		}
		if stopping && due == nil && l.adapter.State() == Idle {
			stopping = false
			select {
			case l.settled <- struct{}{}:
			default:
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			apply(l.adapter.Shutdown())
			return ctx.Err()

		case kind := <-l.controls:
			apply(l.adapter.Handle(ctx, Event{Kind: kind}))

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			ev.Input = l.sink.Input()
			apply(l.adapter.Handle(ctx, ev))

		case <-due:
			due = nil
			apply(l.adapter.Handle(ctx, Event{Kind: EventSubmitDue, Input: l.sink.Input()}))
		}
	}
}
