// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and the small informational commands.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdSignup
	CmdLogin
	CmdFeedback
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdChat:
		return "chat"
	case CmdSignup:
		return "signup"
	case CmdLogin:
		return "login"
	case CmdFeedback:
		return "feedback"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config: explicit config file
	ServerURL  string // --server: overrides server.base_url
	Email      string // --email, -e
	JSON       bool
	Quiet      bool
	NoVoice    bool // --no-voice: hide voice input even when configured

	// ConversationID is the conversation to open (tui, chat) or report on
	// (feedback).
	ConversationID string

	// ExportDir overrides feedback.export_dir (feedback --dir).
	ExportDir string

	// Print renders the report to stdout instead of only saving it.
	Print bool

	// Raw args after the command name
	Raw []string
}

// boolFlags never consume the following argument.
var boolFlags = []string{"json", "quiet", "q", "no-voice", "print", "help", "h", "version"}

const usageText = `salestrainer - practice sales conversations against an AI prospect

Usage:
  salestrainer                     Start the full-screen chat (default)
  salestrainer tui [--id ID]       Same, optionally opening conversation ID
  salestrainer chat [--id ID]      Line-mode chat in the terminal
  salestrainer signup              Create an account
  salestrainer login               Check credentials against the server
  salestrainer feedback ID         Fetch the feedback report for a conversation
  salestrainer config [SUB]        Show settings; SUB is show, path, init or reset
  salestrainer version             Show version information
  salestrainer help                Show this help

Global flags:
  --config PATH      Config file (default ~/.salestrainer/config.toml)
  --server URL       Server address (default from config)
  -e, --email EMAIL  Account email; the password is asked for, or read
                     from SALESTRAINER_PASSWORD
  --no-voice         Disable voice input
  --json             JSON output (version, feedback, signup, config)
  -q, --quiet        Less output

Feedback flags:
  --dir DIR          Save the report in DIR (default feedback.export_dir)
  --print            Also print the report

Chat screen keys:
  enter send   alt+enter newline   ctrl+r voice   ctrl+f feedback
  ctrl+n new   tab next chat       ctrl+x delete  ctrl+c quit
  In the feedback window: esc close, ctrl+s save, arrows scroll.

Line-mode chat commands:
  /feedback [save]  Show the feedback report, optionally saving it
  /voice            Speak the next message
  /new              Start a new conversation
  /list             List conversations
  /open ID          Switch conversation
  /delete           Delete the current conversation
  /help, /quit

Environment:
  SALESTRAINER_BASE_URL, SALESTRAINER_EMAIL, SALESTRAINER_PASSWORD,
  SALESTRAINER_VOICE, SALESTRAINER_EXPORT_DIR, OPENAI_API_KEY, NO_COLOR.
  A .env file in the working directory is read at startup.

Version: %s
`

// PrintUsage writes the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information, as JSON when asJSON is set.
func PrintVersion(w io.Writer, asJSON bool) error {
	if asJSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		}).Print(w)
	}
	fmt.Fprintf(w, "salestrainer version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses the arguments after the program name.
func Parse(argv []string) (Command, Args, error) {
	p := NewArgParser(argv, boolFlags...)

	args := Args{
		ConfigPath:     p.Flag("config"),
		ServerURL:      p.Flag("server"),
		Email:          p.Flag("email", "e"),
		JSON:           p.BoolFlag("json"),
		Quiet:          p.BoolFlag("quiet", "q"),
		NoVoice:        p.BoolFlag("no-voice"),
		ConversationID: p.Flag("id", "conversation"),
		ExportDir:      p.Flag("dir"),
		Print:          p.BoolFlag("print"),
		Raw:            p.PositionalFrom(1),
	}

	if p.BoolFlag("help", "h") {
		return CmdHelp, args, nil
	}
	if p.BoolFlag("version") {
		return CmdVersion, args, nil
	}

	name := strings.ToLower(p.Positional(0))
	switch name {
	case "", "tui":
		return CmdTUI, args, nil

	case "chat", "repl":
		return CmdChat, args, nil

	case "signup", "register":
		return CmdSignup, args, nil

	case "login":
		return CmdLogin, args, nil

	case "feedback":
		if args.ConversationID == "" {
			args.ConversationID = p.Positional(1)
		}
		if args.ConversationID == "" {
			return CmdFeedback, args, ErrMissingArgument("conversation ID", "salestrainer feedback ID [--dir DIR] [--print]")
		}
		return CmdFeedback, args, nil

	case "config":
		return CmdConfig, args, nil

	case "version":
		return CmdVersion, args, nil

	case "help":
		return CmdHelp, args, nil
	}

	msg := fmt.Sprintf("unknown command %q", name)
	if s := SuggestCommand(name); s != "" {
		msg += fmt.Sprintf(". Did you mean %q?", s)
	}
	return CmdHelp, args, &UsageError{Message: msg, Usage: "salestrainer help"}
}
