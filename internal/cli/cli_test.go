// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/api/apitest"
	"github.com/salestrainer/salestrainer-tui/internal/config"
	"github.com/salestrainer/salestrainer-tui/internal/feedback"
	"github.com/salestrainer/salestrainer-tui/internal/signup"
	"github.com/salestrainer/salestrainer-tui/internal/voice"
)

const (
	testEmail    = "dana@example.com"
	testPassword = "Secret1!x"
)

// =============================================================================
// HELPERS
// =============================================================================

func newServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("Dana", testEmail, testPassword)
	return srv
}

// newEnv builds an Env whose prompter answers from input, one line per
// prompt. Credentials come from the environment map.
func newEnv(t *testing.T, srv *apitest.Server, input string, vars map[string]string) (*Env, *bytes.Buffer) {
	t.Helper()

	cfg := config.Default()
	cfg.Feedback.ExportDir = t.TempDir()

	out := &bytes.Buffer{}
	return &Env{
		Config: cfg,
		Client: api.NewClientWithConfig(&api.ClientConfig{
			BaseURL:       srv.URL,
			AuthPerMinute: 600,
		}),
		Prompter: NewLinePrompter(strings.NewReader(input), out),
		Out:      out,
		Err:      out,
		Getenv:   func(k string) string { return vars[k] },
	}, out
}

func credentials() map[string]string {
	return map[string]string{EnvEmail: testEmail, EnvPassword: testPassword}
}

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"feedback"},
			wantSub: "feedback",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"feedback", "--dir", "/tmp"},
			wantSub: "feedback",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "/tmp", p.Flag("dir"))
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"chat", "--server=http://localhost:5000"},
			wantSub: "chat",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "http://localhost:5000", p.Flag("server"))
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"version", "--json"},
			wantSub: "version",
			validate: func(t *testing.T, p *ArgParser) {
				assert.True(t, p.BoolFlag("json"))
			},
		},
		{
			name:    "short flag",
			args:    []string{"login", "-e", "dana@example.com"},
			wantSub: "login",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "dana@example.com", p.Flag("email", "e"))
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"feedback", "--", "--not-a-flag"},
			wantSub: "feedback",
			validate: func(t *testing.T, p *ArgParser) {
				assert.Equal(t, "--not-a-flag", p.Positional(1))
				assert.False(t, p.HasFlag("not-a-flag"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, "json")
			assert.Equal(t, tt.wantSub, p.Positional(0))
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_BoolNamesKeepPositionals(t *testing.T) {
	p := NewArgParser([]string{"feedback", "--json", "12"}, "json")

	assert.True(t, p.BoolFlag("json"))
	assert.Equal(t, "12", p.Positional(1))
	assert.Equal(t, 2, p.PositionalCount())
	assert.Equal(t, []string{"12"}, p.PositionalFrom(1))
	assert.Empty(t, p.PositionalFrom(5))
}

func TestArgParser_FlagOrDefault(t *testing.T) {
	p := NewArgParser([]string{"--dir", "out"})
	assert.Equal(t, "out", p.FlagOrDefault("dir", "."))
	assert.Equal(t, "x", p.FlagOrDefault("missing", "x"))
}

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdTUI},
		{[]string{"tui"}, CmdTUI},
		{[]string{"chat"}, CmdChat},
		{[]string{"repl"}, CmdChat},
		{[]string{"signup"}, CmdSignup},
		{[]string{"register"}, CmdSignup},
		{[]string{"login"}, CmdLogin},
		{[]string{"feedback", "7"}, CmdFeedback},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"chat", "-h"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, " "), func(t *testing.T) {
			cmd, _, err := Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	_, args, err := Parse([]string{"chat", "--id", "42", "--server", "http://s", "-e", "a@b.c", "--no-voice", "-q"})
	require.NoError(t, err)

	assert.Equal(t, "42", args.ConversationID)
	assert.Equal(t, "http://s", args.ServerURL)
	assert.Equal(t, "a@b.c", args.Email)
	assert.True(t, args.NoVoice)
	assert.True(t, args.Quiet)
}

func TestParse_FeedbackID(t *testing.T) {
	_, args, err := Parse([]string{"feedback", "--json", "12", "--dir", "out", "--print"})
	require.NoError(t, err)
	assert.Equal(t, "12", args.ConversationID)
	assert.Equal(t, "out", args.ExportDir)
	assert.True(t, args.JSON)
	assert.True(t, args.Print)

	_, _, err = Parse([]string{"feedback"})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, usage.Message, "conversation ID")
}

func TestParse_UnknownCommandSuggests(t *testing.T) {
	_, _, err := Parse([]string{"feedbak"})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, usage.Message, `Did you mean "feedback"?`)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestSuggestCommand(t *testing.T) {
	assert.Equal(t, "signup", SuggestCommand("sinup"))
	assert.Equal(t, "chat", SuggestCommand("caht"))
	assert.Equal(t, "", SuggestCommand("completelyunrelated"))
}

func TestPrintVersion_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintVersion(&out, true))

	var resp struct {
		Success bool        `json:"success"`
		Command string      `json:"command"`
		Data    VersionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "version", resp.Command)
	assert.Equal(t, Version, resp.Data.Version)
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Message: "bad"}, ExitUsageError},
		{"validation", signup.ValidationErrors{{Field: "name", Message: "Please enter your name"}}, ExitValidationError},
		{"auth", &api.ClientError{Type: api.ErrTypeAuth}, ExitAuthError},
		{"transport", &api.ClientError{Type: api.ErrTypeTransport, Cause: errors.New("refused")}, ExitNetworkError},
		{"unauthorized", &api.ClientError{Type: api.ErrTypeApplication, StatusCode: http.StatusUnauthorized}, ExitAuthError},
		{"server", &api.ClientError{Type: api.ErrTypeApplication, StatusCode: http.StatusBadRequest}, ExitGeneralError},
		{"wrapped", NewCommandError("feedback", "fetch", &api.ClientError{Type: api.ErrTypeTransport}), ExitNetworkError},
		{"plain", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestUserFacing(t *testing.T) {
	verrs := signup.ValidationErrors{
		{Field: "email", Message: "Please enter your email address"},
		{Field: "terms", Message: "You must agree to the Terms of Service and Privacy Policy"},
	}
	assert.Equal(t, "Please enter your email address", UserFacing(verrs))

	serverErr := NewCommandError("signup", "register", &api.ClientError{
		Type:       api.ErrTypeApplication,
		ServerText: "Email address already in use",
	})
	assert.Equal(t, "Email address already in use", UserFacing(serverErr))

	assert.Equal(t, "boom", UserFacing(errors.New("boom")))
}

// =============================================================================
// LOGIN TESTS (auth.go)
// =============================================================================

func TestNewClient_ServerOverride(t *testing.T) {
	cfg := config.Default()
	c := NewClient(cfg, Args{ServerURL: "http://override:9000/"})
	assert.Equal(t, "http://override:9000", c.BaseURL())

	c = NewClient(cfg, Args{})
	assert.Equal(t, strings.TrimRight(cfg.Server.BaseURL, "/"), c.BaseURL())
}

func TestLogin_FromEnvironment(t *testing.T) {
	srv := newServer(t)
	env, out := newEnv(t, srv, "", credentials())

	require.NoError(t, HandleLogin(context.Background(), env, Args{}))
	assert.Contains(t, out.String(), "Logged in.")
}

func TestLogin_PromptsForMissingValues(t *testing.T) {
	srv := newServer(t)
	env, _ := newEnv(t, srv, testEmail+"\n"+testPassword+"\n", nil)

	require.NoError(t, Login(context.Background(), env, Args{}))
}

func TestLogin_BadPassword(t *testing.T) {
	srv := newServer(t)
	env, _ := newEnv(t, srv, "", map[string]string{EnvEmail: testEmail, EnvPassword: "wrong"})

	err := Login(context.Background(), env, Args{})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password. Please try again.", UserFacing(err))
	assert.Equal(t, ExitAuthError, GetExitCode(err))
}

func TestCredentials_EmptyInputIsUsageError(t *testing.T) {
	srv := newServer(t)
	env, _ := newEnv(t, srv, "\n\n", nil)

	_, err := Credentials(env, Args{})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
}

// =============================================================================
// SIGNUP TESTS (signup.go)
// =============================================================================

func TestSignup_Success(t *testing.T) {
	srv := newServer(t)
	input := "Robin\nrobin@example.com\nLongEnough1!\nLongEnough1!\ny\n"
	env, out := newEnv(t, srv, input, nil)

	require.NoError(t, HandleSignup(context.Background(), env, Args{}))
	assert.Contains(t, out.String(), "Account created.")
	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/auth/register"))
}

func TestSignup_JSON(t *testing.T) {
	srv := newServer(t)
	input := "Robin\nLongEnough1!\nLongEnough1!\nyes\n"
	env, out := newEnv(t, srv, input, nil)

	require.NoError(t, HandleSignup(context.Background(), env, Args{JSON: true, Email: "robin@example.com"}))

	// The prompts share the buffer; the JSON document is the last part.
	body := out.String()
	body = body[strings.Index(body, "{"):]
	var resp struct {
		Success bool       `json:"success"`
		Data    SignupData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "robin@example.com", resp.Data.Email)
	assert.Equal(t, api.DefaultRedirect, resp.Data.Redirect)
}

func TestSignup_ValidationStopsBeforeRequest(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short password", "Robin\nrobin@example.com\nshort\nshort\ny\n", "Password must be at least 8 characters long"},
		{"mismatch", "Robin\nrobin@example.com\nLongEnough1!\nLongEnough2!\ny\n", "Passwords do not match"},
		{"terms", "Robin\nrobin@example.com\nLongEnough1!\nLongEnough1!\nn\n", "You must agree to the Terms of Service and Privacy Policy"},
		{"missing name", "\nrobin@example.com\nLongEnough1!\nLongEnough1!\ny\n", "Please enter your name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t)
			env, _ := newEnv(t, srv, tt.input, nil)

			err := HandleSignup(context.Background(), env, Args{Quiet: true})
			require.Error(t, err)
			assert.Equal(t, tt.want, UserFacing(err))
			assert.Equal(t, ExitValidationError, GetExitCode(err))
			assert.Zero(t, srv.CountRequests(http.MethodPost, "/auth/register"))
		})
	}
}

func TestSignup_ServerRejection(t *testing.T) {
	srv := newServer(t)
	input := "Dana\n" + testEmail + "\nLongEnough1!\nLongEnough1!\ny\n"
	env, _ := newEnv(t, srv, input, nil)

	err := HandleSignup(context.Background(), env, Args{Quiet: true})
	require.Error(t, err)
	assert.Equal(t, "Email address already in use", UserFacing(err))
}

func TestSignup_ShowsStrengthAndHints(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	srv := newServer(t)
	input := "Robin\nrobin@example.com\nabc\nabc\nn\n"
	env, out := newEnv(t, srv, input, nil)

	_ = HandleSignup(context.Background(), env, Args{Quiet: true})
	assert.Contains(t, out.String(), "Strength")
	assert.Contains(t, out.String(), "8 characters")
}

// =============================================================================
// FEEDBACK TESTS (feedback_cmd.go)
// =============================================================================

func TestFeedback_SavesPlainReport(t *testing.T) {
	srv := newServer(t)
	id := srv.AddConversation(testEmail, "Cold call", 4)
	env, out := newEnv(t, srv, "", credentials())
	require.NoError(t, Login(context.Background(), env, Args{}))

	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, exportFeedback(context.Background(), env, Args{ConversationID: id}, now))

	path := filepath.Join(env.Config.Feedback.ExportDir, feedback.FileName(now))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Strengths\n• Good rapport\n\nKeep going.\n", string(data))
	assert.Contains(t, out.String(), "Saved to")
}

func TestFeedback_DirFlagAndPrint(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	srv := newServer(t)
	id := srv.AddConversation(testEmail, "Cold call", 4)
	env, out := newEnv(t, srv, "", credentials())

	dir := t.TempDir()
	require.NoError(t, HandleFeedback(context.Background(), env, Args{ConversationID: id, ExportDir: dir, Print: true}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, out.String(), "• Good rapport")
}

func TestFeedback_ServerRefusesShortConversation(t *testing.T) {
	srv := newServer(t)
	id := srv.AddConversation(testEmail, "Cold call", 2)
	env, _ := newEnv(t, srv, "", credentials())

	err := HandleFeedback(context.Background(), env, Args{ConversationID: id})
	require.Error(t, err)
	assert.Equal(t, "Not enough conversation history to generate feedback", UserFacing(err))

	entries, _ := os.ReadDir(env.Config.Feedback.ExportDir)
	assert.Empty(t, entries)
}

// =============================================================================
// CHAT TESTS (chat.go)
// =============================================================================

type fakeRecognizer struct {
	mu       sync.Mutex
	events   chan voice.Event
	startErr error
	heard    string
}

func newFakeRecognizer(heard string) *fakeRecognizer {
	return &fakeRecognizer{events: make(chan voice.Event, 8), heard: heard}
}

func (f *fakeRecognizer) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	if f.heard != "" {
		f.events <- voice.Event{Kind: voice.EventResult, Results: [][]string{{f.heard}}}
	}
	return nil
}

func (f *fakeRecognizer) Stop() error {
	f.events <- voice.Event{Kind: voice.EventEnded}
	return nil
}

func (f *fakeRecognizer) Events() <-chan voice.Event { return f.events }

// newChat logs in and returns a session reading input, with stdout and
// stderr kept apart.
func newChat(t *testing.T, srv *apitest.Server, input string, rec voice.Recognizer) (*ChatSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	env, _ := newEnv(t, srv, "", credentials())
	require.NoError(t, Login(context.Background(), env, Args{}))
	env.Config.Voice.SubmitDelayMs = 10

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	in := NewLinePrompter(strings.NewReader(input), out)
	s := NewChatSession(env.Client, env.Config, in, out, errOut, rec)
	s.Quiet = true
	s.Now = func() time.Time { return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC) }
	return s, out, errOut
}

func TestChat_SendsAndPrintsReply(t *testing.T) {
	srv := newServer(t)
	s, out, errOut := newChat(t, srv, "Hello there, do you have a minute?\n/quit\n", nil)

	require.NoError(t, s.Run(context.Background(), ""))

	assert.Contains(t, out.String(), "Prospect")
	assert.Contains(t, out.String(), "Tell me more about Hello there, do you have a minute?")
	assert.Empty(t, errOut.String())
	assert.Equal(t, 2, s.Controller.State().Conversation.MessageCount())
}

func TestChat_ServerErrorIsShown(t *testing.T) {
	srv := newServer(t)
	srv.Responder = func(_, _ string) (string, error) { return "", errors.New("Model overloaded") }
	s, _, errOut := newChat(t, srv, "Hi\n", nil)

	require.NoError(t, s.Run(context.Background(), ""))
	assert.Contains(t, errOut.String(), "Model overloaded")
	assert.True(t, s.Controller.State().Input.Enabled)
}

func TestChat_OpensExistingConversation(t *testing.T) {
	srv := newServer(t)
	id := srv.AddConversation(testEmail, "Cold call", 2)
	s, out, _ := newChat(t, srv, "", nil)

	require.NoError(t, s.Run(context.Background(), id))
	assert.Contains(t, out.String(), "Cold call")
	assert.Contains(t, out.String(), "Earlier message 1")
	assert.Contains(t, out.String(), "Earlier message 2")
}

func TestChat_FeedbackSave(t *testing.T) {
	srv := newServer(t)
	id := srv.AddConversation(testEmail, "Cold call", 4)
	s, out, errOut := newChat(t, srv, "/feedback save\n/quit\n", nil)

	require.NoError(t, s.Run(context.Background(), id))
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "Sales Feedback")
	assert.False(t, s.Controller.State().Modal.IsActive())

	path := filepath.Join(s.Config.Feedback.ExportDir, feedback.FileName(s.Now()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "• Good rapport")
}

func TestChat_FeedbackNeedsMessages(t *testing.T) {
	srv := newServer(t)
	s, _, errOut := newChat(t, srv, "/feedback\n", nil)

	require.NoError(t, s.Run(context.Background(), ""))
	assert.Contains(t, errOut.String(), "Feedback is available after 4 messages")
	assert.Zero(t, srv.CountRequests(http.MethodGet, "/chat/1/feedback"))
}

func TestChat_ListNewAndDelete(t *testing.T) {
	srv := newServer(t)
	srv.AddConversation(testEmail, "Cold call", 2)
	s, out, errOut := newChat(t, srv, "/list\n/new\n/delete\n/quit\n", nil)

	require.NoError(t, s.Run(context.Background(), "1"))
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "* ")
	assert.Contains(t, out.String(), "Conversation deleted.")
	assert.Equal(t, 1, srv.CountRequests(http.MethodDelete, "/chat/2"))

	// Deleting opens a fresh conversation.
	assert.NotEqual(t, "2", s.Controller.State().ConversationID())
	assert.NotEmpty(t, s.Controller.State().ConversationID())
}

func TestChat_UnknownSlashCommand(t *testing.T) {
	srv := newServer(t)
	s, _, errOut := newChat(t, srv, "/bogus\n/open\n", nil)

	require.NoError(t, s.Run(context.Background(), ""))
	assert.Contains(t, errOut.String(), "Unknown command /bogus")
	assert.Contains(t, errOut.String(), "Usage: /open ID")
}

func TestChat_VoiceUnavailable(t *testing.T) {
	srv := newServer(t)
	s, _, errOut := newChat(t, srv, "/voice\n", nil)

	require.NoError(t, s.Run(context.Background(), ""))
	assert.Contains(t, errOut.String(), "Voice input is not available")
}

func TestChat_VoiceSubmitsTranscript(t *testing.T) {
	srv := newServer(t)
	rec := newFakeRecognizer("Can I have five minutes?")
	// The empty line stops recording.
	s, out, errOut := newChat(t, srv, "/voice\n\n/quit\n", rec)

	require.NoError(t, s.Run(context.Background(), ""))
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "Tell me more about Can I have five minutes?")
	assert.Equal(t, 1, srv.CountRequests(http.MethodPost, "/chat/1/message"))
}

func TestChat_VoicePermissionDenied(t *testing.T) {
	srv := newServer(t)
	rec := newFakeRecognizer("")
	rec.startErr = voice.ErrPermissionDenied
	s, _, errOut := newChat(t, srv, "/voice\n\n", rec)

	require.NoError(t, s.Run(context.Background(), ""))
	assert.Contains(t, errOut.String(), voice.PermissionMessage)
	assert.Zero(t, srv.CountRequests(http.MethodPost, "/chat/1/message"))
}

func TestChat_StartFailure(t *testing.T) {
	srv := newServer(t)
	s, _, _ := newChat(t, srv, "", nil)
	srv.FailNext("GET /chat/", apitest.Failure{Status: http.StatusInternalServerError, Body: "oops"})

	err := s.Run(context.Background(), "")
	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "chat", ce.Command)
}

// =============================================================================
// CONFIG COMMAND TESTS (config_cmd.go)
// =============================================================================

func newConfigEnv(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)

	cfg := config.Default()
	config.SetGlobal(cfg)

	out := &bytes.Buffer{}
	return &Env{Config: cfg, Out: out, Err: &bytes.Buffer{}}, out
}

func TestParse_ConfigSubcommand(t *testing.T) {
	cmd, args, err := Parse([]string{"config", "init", "--config", "/tmp/st.toml"})
	require.NoError(t, err)
	assert.Equal(t, CmdConfig, cmd)
	assert.Equal(t, []string{"init"}, args.Raw)
	assert.Equal(t, "/tmp/st.toml", args.ConfigPath)
	assert.Equal(t, "config", SuggestCommand("confg"))
}

func TestConfig_InitThenReset(t *testing.T) {
	env, out := newConfigEnv(t)
	path := filepath.Join(t.TempDir(), "salestrainer.toml")

	require.NoError(t, HandleConfig(env, Args{ConfigPath: path, Raw: []string{"init"}}, ""))
	assert.Contains(t, out.String(), "Wrote default settings to "+path)

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.BaseURL, loaded.Server.BaseURL)

	err = HandleConfig(env, Args{ConfigPath: path, Raw: []string{"init"}}, path)
	var ue *UsageError
	require.ErrorAs(t, err, &ue, "init never overwrites")
	assert.Contains(t, ue.Message, "already exists")

	require.NoError(t, os.WriteFile(path, []byte("[feedback]\nmin_messages = 8\n"), 0600))
	require.NoError(t, HandleConfig(env, Args{Raw: []string{"reset"}}, path))
	loaded, err = config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMinMessages, loaded.Feedback.MinMessages)
}

func TestConfig_InitDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	env, _ := newConfigEnv(t)

	require.NoError(t, HandleConfig(env, Args{Raw: []string{"init"}, Quiet: true}, ""))

	info, err := os.Stat(filepath.Join(home, ".salestrainer", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfig_InitJSONFile(t *testing.T) {
	env, out := newConfigEnv(t)
	path := filepath.Join(t.TempDir(), "salestrainer.json")

	require.NoError(t, HandleConfig(env, Args{ConfigPath: path, Raw: []string{"init"}, JSON: true}, ""))

	var resp struct {
		Success bool           `json:"success"`
		Data    ConfigPathData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, path, resp.Data.Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data), "a .json target is written as JSON")
}

func TestConfig_ShowMasksSecrets(t *testing.T) {
	env, out := newConfigEnv(t)
	config.Global().Voice.OpenAIAPIKey = "sk-do-not-print"

	require.NoError(t, HandleConfig(env, Args{}, ""))
	assert.NotContains(t, out.String(), "sk-do-not-print")
	assert.Contains(t, out.String(), "base_url")
	assert.Contains(t, out.String(), "none, using defaults")

	out.Reset()
	require.NoError(t, HandleConfig(env, Args{Raw: []string{"show"}, JSON: true}, "/etc/st.toml"))
	assert.NotContains(t, out.String(), "sk-do-not-print")
	assert.Contains(t, out.String(), "[REDACTED]")
	assert.Contains(t, out.String(), "/etc/st.toml")
}

func TestConfig_PathAndUnknownSubcommand(t *testing.T) {
	env, out := newConfigEnv(t)
	path := filepath.Join(t.TempDir(), "missing.toml")

	require.NoError(t, HandleConfig(env, Args{ConfigPath: path, Raw: []string{"path"}}, ""))
	assert.Equal(t, path+"\n", out.String())

	err := HandleConfig(env, Args{Raw: []string{"edit"}}, "")
	var ue *UsageError
	require.ErrorAs(t, err, &ue)
}
