// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice turns speech into chat input.
//
// Capture is a two-state machine (Idle, Recording) expressed as the pure
// function Transition. An Adapter binds it to a Recognizer and returns the
// UI effects to apply: indicators, input text, a delayed submission after an
// explicit stop, and error messages. Two recognizers are provided:
// CommandRecognizer speaks a JSON-lines protocol with an external program,
// and WhisperRecognizer records with a capture command and transcribes with
// the OpenAI API.
//
// When no recognizer can run the adapter is inert and Available reports
// false; that is not an error.
package voice
