// salestrainer - practice sales conversations against an AI prospect.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salestrainer/salestrainer-tui/internal/cli"
	"github.com/salestrainer/salestrainer-tui/internal/config"
	"github.com/salestrainer/salestrainer-tui/internal/ui/chat"
	"github.com/salestrainer/salestrainer-tui/internal/voice"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the process exit code.
func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		return cli.GetExitCode(err)
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		if err := cli.PrintVersion(os.Stdout, args.JSON); err != nil {
			cli.DisplayError(os.Stderr, err)
			return cli.ExitGeneralError
		}
		return cli.ExitSuccess
	}

	cfg, cfgPath, err := loadConfig(cmd, args)
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		return cli.ExitConfigError
	}
	config.SetGlobal(cfg)

	closeLog := setupLogging(cfg)
	defer closeLog()
	log.Printf("START | version=%s command=%s server=%s", Version, cmd, cfg.Server.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	prompter := cli.NewTerminalPrompter()
	env := &cli.Env{
		Config:   cfg,
		Client:   cli.NewClient(cfg, args),
		Prompter: prompter,
		Out:      os.Stdout,
		Err:      os.Stderr,
	}

	switch cmd {
	case cli.CmdTUI:
		err = runTUI(ctx, env, args, cfgPath)
	case cli.CmdChat:
		err = cli.HandleChatCommand(ctx, env, args)
	case cli.CmdSignup:
		err = cli.HandleSignup(ctx, env, args)
	case cli.CmdLogin:
		err = cli.HandleLogin(ctx, env, args)
	case cli.CmdFeedback:
		err = cli.HandleFeedback(ctx, env, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(env, args, cfgPath)
	}
	prompter.Close()

	if err != nil {
		if errors.Is(err, cli.ErrAborted) {
			return cli.ExitGeneralError
		}
		log.Printf("COMMAND_FAILED | command=%s err=%v", cmd, err)
		if args.JSON {
			cli.NewJSONErrorResponse(cmd.String(), err).Print(os.Stdout)
		} else {
			cli.DisplayError(os.Stderr, err)
		}
		return cli.GetExitCode(err)
	}
	return cli.ExitSuccess
}

// loadConfig reads --config when given, else the default locations. The
// returned path is the file to watch, "" when running on defaults. The
// config command may name a file that does not exist yet.
func loadConfig(cmd cli.Command, args cli.Args) (*config.Config, string, error) {
	if args.ConfigPath != "" {
		if err := config.LoadDotEnv(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		if _, statErr := os.Stat(args.ConfigPath); cmd == cli.CmdConfig && errors.Is(statErr, os.ErrNotExist) {
			cfg := config.Default()
			cfg.ApplyEnvOverrides()
			return cfg, "", nil
		}
		cfg, err := config.LoadFromPath(args.ConfigPath)
		return cfg, args.ConfigPath, err
	}

	cfg, err := config.Load()
	if cfg == nil {
		return nil, "", err
	}
	if err != nil {
		// Defaults are usable; the broken file is only reported.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	path, _ := config.Path()
	return cfg, path, nil
}

// setupLogging sends the log package to the log file so it never draws
// over the TUI. Logging is discarded when the file cannot be opened.
func setupLogging(cfg *config.Config) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	path, err := cfg.LogPath()
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0700)
	}
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	}
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}

	log.SetOutput(f)
	return func() { f.Close() }
}

// runTUI logs in on the plain terminal, then hands it to the chat screen.
func runTUI(ctx context.Context, env *cli.Env, args cli.Args, cfgPath string) error {
	if err := cli.RequiresTTY("the chat screen"); err != nil {
		return err
	}
	if err := cli.Login(ctx, env, args); err != nil {
		return err
	}
	// Release the terminal before Bubble Tea takes it.
	if c, ok := env.Prompter.(io.Closer); ok {
		c.Close()
	}

	var rec voice.Recognizer
	if !args.NoVoice {
		rec = voice.FromConfig(env.Config.Voice)
	}

	m := chat.New(chat.Options{
		Client:         env.Client,
		Config:         env.Config,
		ConfigPath:     cfgPath,
		Recognizer:     rec,
		ConversationID: args.ConversationID,
		Version:        cli.Version,
		Context:        ctx,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running salestrainer: %w", err)
	}
	return nil
}
