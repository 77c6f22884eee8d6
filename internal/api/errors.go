// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota

	// ErrTypeTransport means the request never produced a response.
	ErrTypeTransport

	// ErrTypeApplication means the server answered with a non-success status.
	ErrTypeApplication

	// ErrTypeDecode means a success response could not be understood.
	ErrTypeDecode

	// ErrTypeAuth means the session is not logged in.
	ErrTypeAuth
)

// String returns the error type name.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeTransport:
		return "transport"
	case ErrTypeApplication:
		return "application"
	case ErrTypeDecode:
		return "decode"
	case ErrTypeAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the API client.
type ClientError struct {
	Type    ErrorType
	Message string

	// ServerText is the server's own "error" field, shown to the user verbatim.
	ServerText string

	// StatusCode is the HTTP status, 0 for transport errors.
	StatusCode int

	Cause error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.ServerText != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.ServerText)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == e.Message
}

// Sentinel errors for easy checking.
var (
	ErrNotAuthenticated = &ClientError{Type: ErrTypeAuth, Message: "not logged in"}
	ErrNoCSRFToken      = &ClientError{Type: ErrTypeDecode, Message: "no anti-forgery token found"}
)

// =============================================================================
// USER-FACING MESSAGES
// =============================================================================

const (
	// NetworkErrorMessage is shown for transport failures.
	NetworkErrorMessage = "Network error. Please check your connection and try again."

	// NotLoggedInMessage is shown when the session has expired.
	NotLoggedInMessage = "Your session has expired. Please log in again."
)

// UserMessage returns the text to show for err: the server's own error
// text when present, a network message for transport failures, otherwise
// fallback.
func UserMessage(err error, fallback string) string {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return fallback
	}
	switch {
	case ce.ServerText != "":
		return ce.ServerText
	case ce.Type == ErrTypeTransport:
		return NetworkErrorMessage
	case ce.Type == ErrTypeAuth:
		return NotLoggedInMessage
	default:
		return fallback
	}
}

// TypeOf returns the ErrorType of err, or ErrTypeUnknown.
func TypeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}
