// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Sales Training server.
//
// The server is a cookie-session web application. State-changing requests
// carry the session's anti-forgery token in the X-CSRF-Token header; the
// client discovers the token from a server-rendered page and keeps the
// session cookie in a jar. Every JSON reply is an envelope discriminated by
// its "status" field.
//
// # Errors
//
// All failures are *ClientError values with one of these types:
//
//   - ErrTypeTransport: no response (network down, cancelled, timed out)
//   - ErrTypeApplication: the server said no; ServerText holds its message
//   - ErrTypeDecode: a success reply that could not be understood
//   - ErrTypeAuth: the session is not logged in
//
// UserMessage maps any of them to the text to show the user.
package api
