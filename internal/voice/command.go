// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"time"
)

// stopGrace is how long a stopped recognizer process gets to flush and exit
// before it is killed.
const stopGrace = 2 * time.Second

// CommandRecognizer runs an external speech recognizer that writes one JSON
// object per line on stdout:
//
//	{"type":"result","results":[["best","alternative"],["next segment"]]}
//	{"type":"error","code":"not-allowed"}
//	{"type":"end"}
//
// Stop sends an interrupt; the process should print its final results and
// exit.
type CommandRecognizer struct {
	emitter
	name string
	args []string
}

// NewCommandRecognizer resolves command on PATH. An empty or missing command
// returns ErrUnavailable.
func NewCommandRecognizer(command string) (*CommandRecognizer, error) {
	name, args := splitCommand(command)
	if name == "" {
		return nil, fmt.Errorf("%w: no recognizer command configured", ErrUnavailable)
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &CommandRecognizer{emitter: newEmitter(), name: path, args: args}, nil
}

type wireEvent struct {
	Type    string     `json:"type"`
	Results [][]string `json:"results"`
	Code    string     `json:"code"`
}

// Start launches the recognizer process. Starting while a run is active is
// a no-op.
func (c *CommandRecognizer) Start(ctx context.Context) error {
	r, runCtx, ok := c.begin(ctx)
	if !ok {
		return nil
	}

	cmd := exec.CommandContext(runCtx, c.name, c.args...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = stopGrace
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		c.finish(r)
		return err
	}
	if err := cmd.Start(); err != nil {
		c.finish(r)
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return err
	}

	log.Printf("VOICE_RECOGNIZER_STARTED | backend=command pid=%d", cmd.Process.Pid)
	go c.read(r, cmd, stdout, &stderr)
	return nil
}

func (c *CommandRecognizer) read(r *run, cmd *exec.Cmd, stdout io.Reader, stderr *bytes.Buffer) {
	defer c.finish(r)

	reported := false
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var we wireEvent
		if err := json.Unmarshal(line, &we); err != nil {
			log.Printf("VOICE_RECOGNIZER_BAD_LINE | err=%v", err)
			continue
		}
		switch we.Type {
		case "result":
			c.emit(r, Event{Kind: EventResult, Results: we.Results})
		case "error":
			reported = true
			c.emit(r, Event{Kind: EventError, Code: we.Code})
		case "end":
			// The process exit below reports the end.
		default:
			log.Printf("VOICE_RECOGNIZER_UNKNOWN_EVENT | type=%s", we.Type)
		}
	}

	err := cmd.Wait()
	if err != nil && !r.stopped.Load() && !reported {
		code := CodeAudioCapture
		if mentionsPermission(stderr.String()) {
			code = CodeNotAllowed
		}
		log.Printf("VOICE_RECOGNIZER_FAILED | err=%v code=%s", err, code)
		c.emit(r, Event{Kind: EventError, Code: code})
	}
	c.emit(r, Event{Kind: EventEnded})
}
