// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Whisper defaults.
const (
	DefaultSampleRate = 16000
	DefaultInterval   = 1500 * time.Millisecond

	// CodeBadAPIKey is reported when the transcription service rejects the key.
	CodeBadAPIKey = "bad-api-key"
)

// WhisperConfig configures a WhisperRecognizer.
type WhisperConfig struct {
	// CaptureCommand writes raw signed 16-bit little-endian mono PCM to
	// stdout, e.g. "arecord -q -f S16_LE -r 16000 -c 1 -t raw".
	CaptureCommand string
	APIKey         string
	// BaseURL overrides the API endpoint. Empty uses OpenAI.
	BaseURL    string
	Model      string
	Language   string
	SampleRate int
	// Interval is how often the utterance so far is re-transcribed.
	Interval time.Duration
}

// WhisperRecognizer captures audio with an external command and
// periodically transcribes the whole utterance so far with the OpenAI
// transcription API. Each transcript replaces the previous hypothesis.
type WhisperRecognizer struct {
	emitter
	cfg    WhisperConfig
	client *openai.Client
	name   string
	args   []string
}

// NewWhisperRecognizer checks the capture command and builds the API client.
func NewWhisperRecognizer(cfg WhisperConfig) (*WhisperRecognizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no OpenAI API key configured", ErrUnavailable)
	}
	name, args := splitCommand(cfg.CaptureCommand)
	if name == "" {
		return nil, fmt.Errorf("%w: no capture command configured", ErrUnavailable)
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &WhisperRecognizer{
		emitter: newEmitter(),
		cfg:     cfg,
		client:  openai.NewClientWithConfig(clientCfg),
		name:    path,
		args:    args,
	}, nil
}

// pcmBuffer accumulates captured audio.
type pcmBuffer struct {
	mu   sync.Mutex
	data []byte
}

func (b *pcmBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.data = append(b.data, p...)
	b.mu.Unlock()
	return len(p), nil
}

func (b *pcmBuffer) snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}

// Start launches the capture command. Starting while a run is active is a
// no-op.
func (w *WhisperRecognizer) Start(ctx context.Context) error {
	r, captureCtx, ok := w.begin(ctx)
	if !ok {
		return nil
	}

	cmd := exec.CommandContext(captureCtx, w.name, w.args...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = stopGrace
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		w.finish(r)
		return err
	}
	if err := cmd.Start(); err != nil {
		w.finish(r)
		if errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return err
	}

	log.Printf("VOICE_RECOGNIZER_STARTED | backend=whisper pid=%d model=%s", cmd.Process.Pid, w.cfg.Model)

	pcm := &pcmBuffer{}
	captured := make(chan struct{})
	go func() {
		defer close(captured)
		_, _ = io.Copy(pcm, stdout)
	}()
	go w.transcribeLoop(ctx, r, cmd, &stderr, pcm, captured)
	return nil
}

func (w *WhisperRecognizer) transcribeLoop(ctx context.Context, r *run, cmd *exec.Cmd, stderr *bytes.Buffer, pcm *pcmBuffer, captured <-chan struct{}) {
	defer w.finish(r)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	// Under a quarter second there is nothing worth sending.
	minBytes := w.cfg.SampleRate / 2
	sent := 0

	transcribe := func() bool {
		audio := pcm.snapshot()
		if len(audio) < minBytes || len(audio) == sent {
			return true
		}
		sent = len(audio)

		text, err := w.transcribe(ctx, audio)
		if err != nil {
			code := transcriptionErrorCode(err)
			log.Printf("VOICE_TRANSCRIPTION_FAILED | err=%v code=%s", err, code)
			w.emit(r, Event{Kind: EventError, Code: code})
			return false
		}
		if text != "" {
			w.emit(r, Event{Kind: EventResult, Results: [][]string{{text}}})
		}
		return true
	}

	for {
		select {
		case <-ticker.C:
			if !transcribe() {
				r.stopped.Store(true)
				r.cancel()
				<-captured
				_ = cmd.Wait()
				w.emit(r, Event{Kind: EventEnded})
				return
			}

		case <-captured:
			err := cmd.Wait()
			if err != nil && !r.stopped.Load() && len(pcm.snapshot()) < minBytes {
				code := CodeAudioCapture
				if mentionsPermission(stderr.String()) {
					code = CodeNotAllowed
				}
				log.Printf("VOICE_CAPTURE_FAILED | err=%v code=%s", err, code)
				w.emit(r, Event{Kind: EventError, Code: code})
			} else {
				transcribe()
			}
			w.emit(r, Event{Kind: EventEnded})
			return
		}
	}
}

func (w *WhisperRecognizer) transcribe(ctx context.Context, pcm []byte) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.cfg.Model,
		Reader:   bytes.NewReader(wavFile(pcm, w.cfg.SampleRate)),
		FilePath: "speech.wav",
		Language: w.cfg.Language,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

func transcriptionErrorCode(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return CodeBadAPIKey
		}
	}
	return CodeNetwork
}

// wavFile wraps 16-bit mono PCM in a RIFF/WAVE header.
func wavFile(pcm []byte, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
