// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - Login for every command that talks to the server.
//
// Command: login
// Short:   Check credentials against the server
//
// Examples:
//   salestrainer login
//   salestrainer login --email dana@example.com
//   SALESTRAINER_PASSWORD=... salestrainer login -e dana@example.com
//
// Sessions live in the client's cookie jar and end with the process, so
// the chat, tui and feedback commands log in the same way first.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/config"
)

// Environment variables read for non-interactive login.
const (
	EnvEmail    = "SALESTRAINER_EMAIL"
	EnvPassword = "SALESTRAINER_PASSWORD"
)

// =============================================================================
// COMMAND ENVIRONMENT
// =============================================================================

// Env is what a command runs against.
type Env struct {
	Config   *config.Config
	Client   *api.Client
	Prompter Prompter
	Out      io.Writer
	Err      io.Writer

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

func (e *Env) getenv(key string) string {
	if e.Getenv != nil {
		return e.Getenv(key)
	}
	return os.Getenv(key)
}

// NewClient builds the API client for cfg, with the --server override.
func NewClient(cfg *config.Config, args Args) *api.Client {
	cc := api.DefaultConfig()
	cc.BaseURL = cfg.Server.BaseURL
	if args.ServerURL != "" {
		cc.BaseURL = args.ServerURL
	}
	cc.Timeout = cfg.Server.Timeout()
	if cfg.Server.CSRFPage != "" {
		cc.CSRFPage = cfg.Server.CSRFPage
	}
	cc.RequestsPerMinute = cfg.Server.RequestsPerMinute
	return api.NewClientWithConfig(cc)
}

// =============================================================================
// LOGIN
// =============================================================================

// Credentials asks for whatever the flags and environment did not supply.
func Credentials(env *Env, args Args) (api.LoginRequest, error) {
	email := strings.TrimSpace(args.Email)
	if email == "" {
		email = strings.TrimSpace(env.getenv(EnvEmail))
	}
	if email == "" {
		s, err := env.Prompter.Prompt("Email: ")
		if err != nil {
			return api.LoginRequest{}, err
		}
		email = strings.TrimSpace(s)
	}

	password := env.getenv(EnvPassword)
	if password == "" {
		s, err := env.Prompter.Password("Password: ")
		if err != nil {
			return api.LoginRequest{}, err
		}
		password = s
	}

	if email == "" || password == "" {
		return api.LoginRequest{}, &UsageError{Message: "Please provide both email and password"}
	}
	return api.LoginRequest{Email: email, Password: password}, nil
}

// Login authenticates env.Client.
func Login(ctx context.Context, env *Env, args Args) error {
	req, err := Credentials(env, args)
	if err != nil {
		return err
	}
	if _, err := env.Client.Login(ctx, req); err != nil {
		log.Printf("LOGIN_FAILED | email=%s type=%s", req.Email, api.TypeOf(err))
		return err
	}
	log.Printf("LOGIN | email=%s", req.Email)
	return nil
}

// HandleLogin runs the login command.
func HandleLogin(ctx context.Context, env *Env, args Args) error {
	if err := Login(ctx, env, args); err != nil {
		return err
	}
	if !args.Quiet {
		fmt.Fprintln(env.Out, SuccessStyle.Render("Logged in.")+" "+DimStyle.Render(env.Client.BaseURL()))
	}
	return nil
}
