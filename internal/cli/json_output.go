// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting (--json).
package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/salestrainer/salestrainer-tui/internal/config"
)

// JSONResponse is the response format for commands run with --json.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	Timestamp string `json:"timestamp"`
	Command   string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := UserFacing(err)
	return &JSONResponse{
		Success:   false,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND DATA
// =============================================================================

// VersionData is the data returned by version --json.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// FeedbackData is the data returned by feedback --json.
type FeedbackData struct {
	ConversationID string `json:"conversation_id"`
	Path           string `json:"path,omitempty"`
	Text           string `json:"text"`
}

// ConfigData is the data returned by config show --json.
type ConfigData struct {
	Path   string         `json:"path,omitempty"`
	Config *config.Config `json:"config"`
}

// ConfigPathData is the data returned by config path, init and reset.
type ConfigPathData struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// SignupData is the data returned by signup --json.
type SignupData struct {
	Email    string `json:"email"`
	Redirect string `json:"redirect"`
}
