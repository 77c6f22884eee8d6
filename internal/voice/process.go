// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// eventBuffer is the capacity of a recognizer's event channel.
const eventBuffer = 64

// run is one capture session of a recognizer.
type run struct {
	cancel  context.CancelFunc
	done    chan struct{}
	abandon chan struct{}
	stopped atomic.Bool
}

// emitter tracks the current run of a recognizer and delivers its events.
// Events from a run that a newer Start replaced are dropped.
type emitter struct {
	mu     sync.Mutex
	events chan Event
	cur    *run
}

func newEmitter() emitter {
	return emitter{events: make(chan Event, eventBuffer)}
}

// Events returns the channel all runs report on.
func (e *emitter) Events() <-chan Event {
	return e.events
}

// begin registers a new run. It returns ok=false when a run is already
// active and has not been asked to stop.
func (e *emitter) begin(parent context.Context) (r *run, runCtx context.Context, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cur != nil {
		select {
		case <-e.cur.done:
		default:
			if !e.cur.stopped.Load() {
				return nil, nil, false
			}
			close(e.cur.abandon)
		}
	}

	runCtx, cancel := context.WithCancel(parent)
	r = &run{
		cancel:  cancel,
		done:    make(chan struct{}),
		abandon: make(chan struct{}),
	}
	e.cur = r
	return r, runCtx, true
}

// finish marks r complete.
func (e *emitter) finish(r *run) {
	r.cancel()
	close(r.done)
}

// emit delivers ev if r is still the current run.
func (e *emitter) emit(r *run, ev Event) {
	e.mu.Lock()
	current := e.cur == r
	e.mu.Unlock()
	if !current {
		return
	}
	select {
	case e.events <- ev:
	case <-r.abandon:
	}
}

// Stop asks the current run to end. The run still flushes its last
// results and reports EventEnded.
func (e *emitter) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cur != nil && e.cur.stopped.CompareAndSwap(false, true) {
		e.cur.cancel()
	}
	return nil
}

// splitCommand breaks a configured command line into name and arguments.
func splitCommand(command string) (string, []string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// mentionsPermission reports whether stderr output looks like a device
// permission failure.
func mentionsPermission(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "permission denied") || strings.Contains(s, "not permitted") || strings.Contains(s, "access denied")
}
