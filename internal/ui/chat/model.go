// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"log"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/salestrainer/salestrainer-tui/internal/config"
	"github.com/salestrainer/salestrainer-tui/internal/markup"
	"github.com/salestrainer/salestrainer-tui/internal/session"
	"github.com/salestrainer/salestrainer-tui/internal/ui/components"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
	"github.com/salestrainer/salestrainer-tui/internal/voice"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// Screen is the top-level view being shown.
type Screen int

const (
	ScreenLanding Screen = iota // Testimonial carousel, enter starts a chat
	ScreenChat                  // Transcript, input and status bar
)

const (
	// maxInputHeight caps how tall the input grows while typing.
	maxInputHeight = 6

	inputPlaceholder     = "Type your message... (enter to send)"
	listeningPlaceholder = "Listening... (ctrl+r to stop and send)"

	openFailedMessage = "Failed to open conversation. Please try again."
)

// Options configures a chat Model.
type Options struct {
	// Client reaches the server. It must already be logged in.
	Client Client

	// Config supplies UI, voice and feedback settings. Nil means the global
	// configuration.
	Config *config.Config

	// ConfigPath is watched for changes when set.
	ConfigPath string

	// Recognizer backs voice input. Nil hides the voice control.
	Recognizer voice.Recognizer

	// ConversationID opens that conversation directly, skipping the landing screen.
	ConversationID string

	Version      string
	Testimonials []components.Testimonial

	// Context bounds every request. Quitting cancels it.
	Context context.Context
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	screen Screen

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Session
	client     Client
	controller *session.Controller
	adapter    *voice.Adapter
	life       *lifetime
	watcher    *configWatcher

	// Settings hot reload may change
	locale    language.Tag
	richText  bool
	exportDir string

	// UI Components
	landing   components.Landing
	viewport  viewport.Model
	modalBody viewport.Model
	input     textarea.Model
	spinner   spinner.Model
	statusBar *components.StatusBar
	modal     *components.ModalView
	toasts    *components.ToastManager

	// Key bindings
	keyMap KeyMap

	// Voice auto-submit: a newer stop supersedes older timers.
	submitGen int
	recording bool

	// Conversation page requested and not yet delivered.
	opening   bool
	openingID string
}

// New creates a chat model. Call Init through Bubble Tea to start it.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Global()
	}

	theme := styles.NewThemeFor(cfg.UI.Theme)

	input := textarea.New()
	input.Placeholder = inputPlaceholder
	input.ShowLineNumbers = false
	input.Prompt = "> "
	input.CharLimit = 0
	input.MaxHeight = maxInputHeight
	input.SetHeight(session.MinInputHeight)
	input.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	input.FocusedStyle.CursorLine = input.FocusedStyle.CursorLine.UnsetBackground()
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.StatusLoading

	delay := cfg.Voice.SubmitDelay()

	m := Model{
		screen:     ScreenLanding,
		theme:      theme,
		width:      80,
		height:     24,
		client:     opts.Client,
		controller: session.NewController(opts.Client, cfg.Feedback.MinMessages),
		adapter:    voice.NewAdapter(opts.Recognizer, delay),
		life:       newLifetime(opts.Context),
		locale:     markup.ResolveLocale(cfg.UI.Locale),
		richText:   cfg.UI.RichText,
		exportDir:  cfg.Feedback.ExportDir,
		landing:    components.NewLanding(theme, opts.Testimonials),
		viewport:   viewport.New(80, 20),
		modalBody:  viewport.New(60, 16),
		input:      input,
		spinner:    sp,
		statusBar:  components.NewStatusBar(theme),
		modal:      components.NewModalView(theme),
		toasts:     components.NewToastManager(),
		keyMap:     DefaultKeyMap(),
		openingID:  opts.ConversationID,
	}
	if opts.Version != "" {
		m.landing.SetVersion(opts.Version)
	}
	if m.openingID != "" {
		m.screen = ScreenChat
		m.opening = true
	}
	if opts.ConfigPath != "" {
		m.watcher = startConfigWatch(m.life.context(), opts.ConfigPath)
		if m.watcher == nil {
			log.Printf("CONFIG_WATCH_UNAVAILABLE | path=%s", opts.ConfigPath)
		}
	}
	m.layout()
	return m
}

// Init starts timers, the recognizer and config listeners and, when a
// conversation was named, its page request.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		m.spinner.Tick,
		components.ToastTickCmd(),
		waitVoiceCmd(m.adapter.Events()),
	}

	if m.screen == ScreenLanding {
		cmds = append(cmds, m.landing.Init())
	}
	if m.openingID != "" {
		cmds = append(cmds, openConversationCmd(m.life.context(), m.client, m.openingID))
	}
	cmds = append(cmds, m.watcher.wait())
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Screen returns the screen being shown.
func (m Model) Screen() Screen {
	return m.screen
}

// Controller returns the session controller.
func (m Model) Controller() *session.Controller {
	return m.controller
}

// Recording reports whether voice capture is on.
func (m Model) Recording() bool {
	return m.recording
}

// InputValue returns the text in the input box.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Shutdown stops voice capture and cancels outstanding requests. The TUI
// calls it on quit; callers embedding the model call it when done.
func (m Model) Shutdown() {
	m.adapter.Shutdown()
	m.life.stop()
}

// batch collapses cmds so a single command is returned as itself.
func batch(cmds []tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return tea.Batch(valid...)
	}
}
