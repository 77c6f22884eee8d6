// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of
// salestrainer.
//
// # Key Types
//
//   - Command: Enumeration of the CLI commands
//   - Args: Parsed command-line arguments
//   - Env: Config, API client, prompter and output a command runs against
//   - ChatSession: The line-mode chat loop
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	if err != nil {
//	    cli.DisplayError(os.Stderr, err)
//	    os.Exit(cli.GetExitCode(err))
//	}
//	switch cmd {
//	case cli.CmdSignup:
//	    err = cli.HandleSignup(ctx, env, args)
//	case cli.CmdChat:
//	    err = cli.HandleChatCommand(ctx, env, args)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - tui: Full-screen chat (handled by package ui/chat)
//   - chat: Line-mode chat with slash commands
//   - signup: Account creation with local validation
//   - login: Credential check
//   - feedback: Fetch and save a conversation's report
//   - config: Show the settings or write a default config file
//   - version, help
//
// version, signup, feedback and config support --json.
package cli
