// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
	"github.com/salestrainer/salestrainer-tui/internal/util"
)

// =============================================================================
// LANDING SCREEN MODEL
// =============================================================================

// RotateInterval is how long each testimonial stays on screen.
const RotateInterval = 5 * time.Second

// Testimonial is one quote in the landing carousel.
type Testimonial struct {
	Quote  string
	Author string
}

// DefaultTestimonials are shown when the caller supplies none.
var DefaultTestimonials = []Testimonial{
	{
		Quote:  "I rehearsed my discovery call five times the night before. The real one felt like the sixth.",
		Author: "Account Executive, SaaS",
	},
	{
		Quote:  "The feedback on my objection handling was blunter than my manager's, and more useful.",
		Author: "Sales Development Rep",
	},
	{
		Quote:  "Practicing price conversations with a tough prospect took the fear out of the real thing.",
		Author: "Regional Sales Manager",
	},
}

// LandingTickMsg advances the carousel. Gen ties it to the tick chain that
// scheduled it so manual navigation restarts the timer.
type LandingTickMsg struct {
	Gen int
}

// Landing is the start screen: product title, a rotating testimonial and
// the key that starts a practice conversation.
type Landing struct {
	testimonials []Testimonial
	index        int
	gen          int

	version string

	// Dimensions
	width  int
	height int

	// Theme
	theme *styles.Theme
}

// NewLanding creates a landing screen. An empty list uses DefaultTestimonials.
func NewLanding(theme *styles.Theme, testimonials []Testimonial) Landing {
	if len(testimonials) == 0 {
		testimonials = DefaultTestimonials
	}
	return Landing{
		testimonials: testimonials,
		version:      "dev",
		theme:        theme,
	}
}

// SetVersion sets the version string.
func (l *Landing) SetVersion(version string) {
	l.version = version
}

// SetSize updates the dimensions.
func (l *Landing) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Index returns the testimonial on screen.
func (l Landing) Index() int {
	return l.index
}

// Current returns the testimonial on screen.
func (l Landing) Current() Testimonial {
	return l.testimonials[l.index]
}

// Next moves to the following testimonial, wrapping at the end.
func (l *Landing) Next() {
	l.index = (l.index + 1) % len(l.testimonials)
}

// Prev moves to the previous testimonial, wrapping at the start.
func (l *Landing) Prev() {
	l.index = (l.index - 1 + len(l.testimonials)) % len(l.testimonials)
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the rotation timer.
func (l Landing) Init() tea.Cmd {
	return l.tick()
}

func (l Landing) tick() tea.Cmd {
	gen := l.gen
	return tea.Tick(RotateInterval, func(time.Time) tea.Msg {
		return LandingTickMsg{Gen: gen}
	})
}

// Update handles rotation ticks and left/right navigation.
func (l Landing) Update(msg tea.Msg) (Landing, tea.Cmd) {
	switch msg := msg.(type) {
	case LandingTickMsg:
		if msg.Gen != l.gen {
			return l, nil
		}
		l.Next()
		return l, l.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			l.Prev()
		case "right", "l":
			l.Next()
		default:
			return l, nil
		}
		l.gen++
		return l, l.tick()

	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
	}
	return l, nil
}

// View renders the landing screen centered in the window.
func (l Landing) View() string {
	width := l.width
	if width == 0 {
		width = 80
	}
	height := l.height
	if height == 0 {
		height = 24
	}

	textWidth := width - 8
	if textWidth > 64 {
		textWidth = 64
	}
	if textWidth < 20 {
		textWidth = 20
	}

	t := l.Current()
	quote := make([]string, 0, 4)
	for _, line := range util.WrapWidth("“"+t.Quote+"”", textWidth) {
		quote = append(quote, l.theme.Quote.Render(line))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		l.theme.LandingTitle.Render("Sales Trainer"),
		l.theme.LandingTagline.Render("Practice sales conversations with an AI prospect"),
		"",
		strings.Join(quote, "\n"),
		l.theme.QuoteAuthor.Render("— "+t.Author),
		"",
		l.renderDots(),
		"",
		l.theme.ShortcutKey.Render("enter")+" "+l.theme.ShortcutDesc.Render("start practicing")+"   "+
			l.theme.ShortcutKey.Render("←/→")+" "+l.theme.ShortcutDesc.Render("browse")+"   "+
			l.theme.ShortcutKey.Render("^c")+" "+l.theme.ShortcutDesc.Render("quit"),
		l.theme.ShortcutDesc.Render("v"+l.version),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderDots renders one dot per testimonial with the current one lit.
func (l Landing) renderDots() string {
	dots := make([]string, len(l.testimonials))
	for i := range l.testimonials {
		if i == l.index {
			dots[i] = l.theme.DotActive.Render("●")
		} else {
			dots[i] = l.theme.Dot.Render("○")
		}
	}
	return strings.Join(dots, " ")
}
