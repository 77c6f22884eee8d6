// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode practice chat.
//
// Command: chat
// Aliases: repl
//
// Examples:
//   salestrainer chat
//   salestrainer chat --id 42
//   salestrainer chat --no-voice
//
// Interactive Commands (during chat):
//   /feedback [save]  Show the feedback report, optionally saving it
//   /voice            Speak the next message, Enter stops
//   /new              Start a new conversation
//   /list             List conversations
//   /open ID          Switch conversation
//   /delete           Delete the current conversation
//   /help, /h         Show available commands
//   /quit, /q         Exit chat
//   Ctrl+C            Cancel the request in flight, or exit at the prompt
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/text/language"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/config"
	"github.com/salestrainer/salestrainer-tui/internal/markup"
	"github.com/salestrainer/salestrainer-tui/internal/model"
	"github.com/salestrainer/salestrainer-tui/internal/session"
	"github.com/salestrainer/salestrainer-tui/internal/status"
	"github.com/salestrainer/salestrainer-tui/internal/voice"
)

// voiceSettleTimeout bounds how long /voice waits after Enter for the
// recognizer to deliver its final transcript.
const voiceSettleTimeout = 30 * time.Second

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of chat input.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads a line with history navigation. Non-blank lines are added
// to the history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history, readable by the owner only.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatClient is the part of the API client the chat command uses.
type ChatClient interface {
	session.Transport
	StartConversation(ctx context.Context) (*api.ChatPage, error)
	OpenConversation(ctx context.Context, id string) (*api.ChatPage, error)
}

// ChatSession holds the state for a line-mode chat.
type ChatSession struct {
	Client     ChatClient
	Controller *session.Controller
	Adapter    *voice.Adapter
	Input      LineReader
	Config     *config.Config

	Out io.Writer
	Err io.Writer

	// Color enables glamour rendering of replies.
	Color  bool
	Quiet  bool
	Locale language.Tag

	// Now stamps exported reports. Defaults to time.Now.
	Now func() time.Time
}

// NewChatSession wires a session for cfg. A nil rec disables /voice.
func NewChatSession(client ChatClient, cfg *config.Config, in LineReader, out, errOut io.Writer, rec voice.Recognizer) *ChatSession {
	return &ChatSession{
		Client:     client,
		Controller: session.NewController(client, cfg.Feedback.MinMessages),
		Adapter:    voice.NewAdapter(rec, cfg.Voice.SubmitDelay()),
		Input:      in,
		Config:     cfg,
		Out:        out,
		Err:        errOut,
		Locale:     markup.ResolveLocale(cfg.UI.Locale),
		Now:        time.Now,
	}
}

func (s *ChatSession) state() *session.State {
	return s.Controller.State()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand runs the line-mode chat.
func HandleChatCommand(ctx context.Context, env *Env, args Args) error {
	if err := Login(ctx, env, args); err != nil {
		return err
	}

	var rec voice.Recognizer
	if !args.NoVoice {
		rec = voice.FromConfig(env.Config.Voice)
	}

	// Only one liner may hold the terminal.
	if c, ok := env.Prompter.(io.Closer); ok {
		c.Close()
	}
	input := NewChatCLI()
	defer input.Close()

	s := NewChatSession(env.Client, env.Config, input, env.Out, env.Err, rec)
	s.Color = ColorsEnabled()
	s.Quiet = args.Quiet
	return s.Run(ctx, args.ConversationID)
}

// Run opens conversationID, or a new conversation when it is empty, and
// reads input until /quit, EOF or Ctrl+C at the prompt.
func (s *ChatSession) Run(ctx context.Context, conversationID string) error {
	if err := s.open(ctx, conversationID); err != nil {
		return err
	}
	if !s.Quiet {
		s.printWelcome()
	}
	s.printHistory()

	for {
		line, err := s.Input.Prompt(PromptStyle.Render("you> "))
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				log.Printf("CHAT_INPUT_FAILED | err=%v", err)
			}
			fmt.Fprintln(s.Out)
			s.printGoodbye()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if !s.handleSlashCommand(ctx, line) {
				s.printGoodbye()
				return nil
			}
			continue
		}

		s.send(ctx, line)
	}
}

// open loads a conversation page into the controller.
func (s *ChatSession) open(ctx context.Context, id string) error {
	var (
		page *api.ChatPage
		err  error
	)
	if id == "" {
		page, err = s.Client.StartConversation(ctx)
	} else {
		page, err = s.Client.OpenConversation(ctx, id)
	}
	if err != nil {
		return NewCommandError("chat", "open the conversation", err)
	}
	if page.ConversationID == "" {
		return NewCommandError("chat", "open the conversation", errors.New("the page named no conversation"))
	}
	s.Controller.OpenPage(page)
	return nil
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// send submits text and prints the reply or the error. Ctrl+C while the
// request is outstanding cancels it.
func (s *ChatSession) send(ctx context.Context, text string) {
	p := s.Controller.BeginSubmit(text)
	if p == nil {
		if s.state().Conversation == nil {
			s.printError("No conversation open. Use /new or /open ID.")
		}
		return
	}

	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if !s.Quiet {
		fmt.Fprintln(s.Out, DimStyle.Render(status.Loading.Label()+"..."))
	}
	r := s.Controller.Dispatch(reqCtx, p)
	s.Controller.CompleteSubmit(r)

	if r.Err != nil {
		if reqCtx.Err() != nil && ctx.Err() == nil {
			fmt.Fprintln(s.Err, WarningStyle.Render("[Cancelled]"))
			return
		}
		s.printError(s.state().Status.Message())
		return
	}
	s.printMessage(r.Reply)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand runs one slash command. It returns false to exit.
func (s *ChatSession) handleSlashCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		s.printHelp()

	case "/quit", "/q", "/exit":
		return false

	case "/feedback", "/f":
		s.feedback(ctx, len(args) > 0 && strings.EqualFold(args[0], "save"))

	case "/voice", "/v":
		s.voiceTurn(ctx)

	case "/new", "/n":
		if err := s.open(ctx, ""); err != nil {
			s.printError(UserFacing(err))
			return true
		}
		s.printHistory()

	case "/list", "/l":
		s.printList()

	case "/open", "/o":
		if len(args) == 0 {
			s.printError("Usage: /open ID")
			return true
		}
		if err := s.open(ctx, args[0]); err != nil {
			s.printError(UserFacing(err))
			return true
		}
		s.printHistory()

	case "/delete":
		s.delete(ctx)

	default:
		msg := fmt.Sprintf("Unknown command %s. Type /help for commands.", command)
		s.printError(msg)
	}
	return true
}

func (s *ChatSession) feedback(ctx context.Context, save bool) {
	st := s.state()
	if st.Conversation == nil {
		s.printError("No conversation open.")
		return
	}
	if !st.FeedbackEnabled {
		s.printError(fmt.Sprintf("Feedback is available after %d messages (%d so far).",
			s.Controller.MinFeedbackMessages(), st.Conversation.MessageCount()))
		return
	}

	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if !s.Quiet {
		fmt.Fprintln(s.Out, DimStyle.Render("Generating feedback..."))
	}
	s.Controller.RequestFeedback(reqCtx)

	if !st.Modal.IsActive() {
		s.printError(st.Status.Message())
		return
	}
	defer st.Modal.Close()

	fmt.Fprintln(s.Out, TitleStyle.Render("Sales Feedback"))
	fmt.Fprint(s.Out, RenderDocument(st.Modal.Document(), s.Color))

	if save {
		path, err := st.Modal.Export(s.Config.Feedback.ExportDir, s.Now())
		if err != nil {
			s.printError("Could not save the report: " + err.Error())
			return
		}
		log.Printf("FEEDBACK_SAVED | conversation=%s", st.ConversationID())
		fmt.Fprintln(s.Out, SuccessStyle.Render("Saved to")+" "+path)
	}
}

func (s *ChatSession) delete(ctx context.Context) {
	id := s.state().ConversationID()
	if id == "" {
		s.printError("No conversation open.")
		return
	}
	if err := s.Controller.DeleteConversation(ctx, id); err != nil {
		s.printError(s.state().Status.Message())
		return
	}
	fmt.Fprintln(s.Out, SuccessStyle.Render("Conversation deleted."))

	if err := s.open(ctx, ""); err != nil {
		s.printError(UserFacing(err))
		return
	}
	s.printHistory()
}

// =============================================================================
// VOICE
// =============================================================================

// voiceSink collects the effects of one /voice turn. The loop goroutine
// owns text; the channels carry the outcome back.
type voiceSink struct {
	text      string
	submitted chan string
	failed    chan string
}

func newVoiceSink() *voiceSink {
	return &voiceSink{
		submitted: make(chan string, 1),
		failed:    make(chan string, 1),
	}
}

func (v *voiceSink) SetIndicators(on bool) { log.Printf("VOICE_INDICATORS | on=%t", on) }
func (v *voiceSink) SetInput(text string)  { v.text = text }
func (v *voiceSink) Input() string         { return v.text }

func (v *voiceSink) Submit(text string) {
	select {
	case v.submitted <- text:
	default:
	}
}

func (v *voiceSink) ShowError(msg string) {
	select {
	case v.failed <- msg:
	default:
	}
}

// voiceTurn records until Enter, then sends the transcript the way the
// chat screen does after a stop.
func (s *ChatSession) voiceTurn(ctx context.Context) {
	if !s.Adapter.Available() {
		s.printError("Voice input is not available. Set voice.enabled in the config.")
		return
	}
	if s.state().Conversation == nil {
		s.printError("No conversation open.")
		return
	}

	sink := newVoiceSink()
	loopCtx, cancel := context.WithCancel(ctx)
	loop := voice.NewLoop(s.Adapter, sink)
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(loopCtx)
	}()

	loop.Start()
	_, err := s.Input.Prompt(WarningStyle.Render("● Listening.") + " " + DimStyle.Render("Press Enter to stop. "))
	if err != nil {
		cancel()
		<-done
		return
	}
	loop.Stop()

	var text, failure string
	select {
	case <-loop.Settled():
	case failure = <-sink.failed:
	case <-time.After(s.Adapter.SubmitDelay() + voiceSettleTimeout):
		log.Printf("VOICE_SETTLE_TIMEOUT")
	}
	cancel()
	<-done

	if failure != "" {
		s.printError(failure)
	} else {
		select {
		case text = <-sink.submitted:
		default:
		}
	}
	switch {
	case strings.TrimSpace(text) != "":
		fmt.Fprintln(s.Out, RoleStyle.Render(model.RoleUser.DisplayName()+":")+" "+text)
		s.send(ctx, text)
	case sink.text != "":
		fmt.Fprintln(s.Out, DimStyle.Render("Heard, not sent: ")+sink.text)
	case failure == "":
		fmt.Fprintln(s.Out, DimStyle.Render("No speech captured."))
	}
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

func (s *ChatSession) printError(msg string) {
	fmt.Fprintln(s.Err, ErrorStyle.Render("[Error]")+" "+msg)
}

func (s *ChatSession) printMessage(msg *model.Message) {
	label := RoleStyle.Render(msg.Role.DisplayName())
	if ts := markup.FormatTime(msg.Timestamp, s.Locale); ts != "" {
		label += " " + DimStyle.Render(ts)
	}
	fmt.Fprintln(s.Out, label)
	fmt.Fprint(s.Out, RenderDocument(markup.ForMessage(msg), s.Color))
}

func (s *ChatSession) printWelcome() {
	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, TitleStyle.Render("Sales Trainer"))
	fmt.Fprintln(s.Out, RenderSeparator())
	fmt.Fprintln(s.Out, DimStyle.Render("Pitch the prospect. Commands: /help, /quit"))
	fmt.Fprintln(s.Out)
}

// printHistory prints the title and every message of the active
// conversation.
func (s *ChatSession) printHistory() {
	st := s.state()
	if st.Conversation == nil {
		return
	}
	fmt.Fprintln(s.Out, RenderLabel("Conversation")+" "+st.Title()+" "+DimStyle.Render("("+st.ConversationID()+")"))
	for _, msg := range st.Messages() {
		s.printMessage(msg)
	}
}

func (s *ChatSession) printList() {
	st := s.state()
	if len(st.Sidebar) == 0 {
		fmt.Fprintln(s.Out, DimStyle.Render("[No conversations]"))
		return
	}
	active := st.ConversationID()
	for _, e := range st.Sidebar {
		marker := "  "
		if e.ID == active {
			marker = "* "
		}
		fmt.Fprintf(s.Out, "%s%s  %s\n", marker, DimStyle.Render(fmt.Sprintf("%-8s", e.ID)), e.Title)
	}
}

func (s *ChatSession) printHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/feedback [save]", "Show the feedback report, optionally saving it"},
		{"/voice", "Speak the next message, Enter stops"},
		{"/new", "Start a new conversation"},
		{"/list", "List conversations"},
		{"/open ID", "Switch conversation"},
		{"/delete", "Delete the current conversation"},
		{"/help", "Show this help"},
		{"/quit", "Exit chat"},
	}

	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, TitleStyle.Render("Available Commands"))
	for _, c := range commands {
		fmt.Fprintf(s.Out, "  %s  %s\n", PromptStyle.Render(fmt.Sprintf("%-18s", c.cmd)), DimStyle.Render(c.desc))
	}
	fmt.Fprintln(s.Out)
}

func (s *ChatSession) printGoodbye() {
	if !s.Quiet {
		fmt.Fprintln(s.Out, DimStyle.Render("Goodbye!"))
	}
}
