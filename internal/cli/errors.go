// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error handling shared by the CLI commands.
//
// Commands return errors; main decides how to show them and which exit
// code to use. Server errors are shown with the server's own text.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/signup"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates the server refused the credentials or session
	ExitAuthError = 4
	// ExitNetworkError indicates the server could not be reached
	ExitNetworkError = 5
	// ExitValidationError indicates input was rejected before any request
	ExitValidationError = 6
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "signup", "feedback")
	Action  string // Action being performed (e.g., "register", "export")
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Command, e.Action, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new command error.
func NewCommandError(command, action string, err error) error {
	return &CommandError{Command: command, Action: action, Err: err}
}

// UsageError is returned for bad arguments.
type UsageError struct {
	Message string
	Usage   string
}

func (e *UsageError) Error() string {
	if e.Usage != "" {
		return e.Message + "\nUsage: " + e.Usage
	}
	return e.Message
}

// ErrMissingArgument returns a usage error for a missing argument.
func ErrMissingArgument(argName, usage string) error {
	return &UsageError{Message: "missing required argument: " + argName, Usage: usage}
}

// =============================================================================
// DISPLAY
// =============================================================================

// UserFacing returns the text to show for err. Server errors use the
// server's text, signup validation the first failing field.
func UserFacing(err error) string {
	var verrs signup.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.First()
	}
	var ce *api.ClientError
	if errors.As(err, &ce) {
		return api.UserMessage(err, err.Error())
	}
	return err.Error()
}

// DisplayError writes err to w in the standard format.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), UserFacing(err))
}

// GetExitCode maps err to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}
	var verrs signup.ValidationErrors
	if errors.As(err, &verrs) {
		return ExitValidationError
	}
	var tty *TTYRequiredError
	if errors.As(err, &tty) {
		return ExitUsageError
	}

	switch api.TypeOf(err) {
	case api.ErrTypeAuth:
		return ExitAuthError
	case api.ErrTypeTransport:
		return ExitNetworkError
	case api.ErrTypeApplication:
		var ce *api.ClientError
		if errors.As(err, &ce) && (ce.StatusCode == 401 || ce.StatusCode == 403) {
			return ExitAuthError
		}
	}
	return ExitGeneralError
}
