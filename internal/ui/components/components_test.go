// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/salestrainer/salestrainer-tui/internal/feedback"
	"github.com/salestrainer/salestrainer-tui/internal/markup"
	"github.com/salestrainer/salestrainer-tui/internal/model"
	"github.com/salestrainer/salestrainer-tui/internal/session"
	"github.com/salestrainer/salestrainer-tui/internal/status"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
)

// plainTheme returns a colorless theme so rendered text can be searched.
func plainTheme(t *testing.T) *styles.Theme {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	return styles.NewThemeFor(styles.ThemeDark)
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBar_States(t *testing.T) {
	theme := plainTheme(t)

	tests := []struct {
		name  string
		setup func(*status.Indicator)
		want  string
	}{
		{"ready", func(i *status.Indicator) { i.SetReady() }, styles.IndicatorReady + " Ready"},
		{"loading", func(i *status.Indicator) { i.SetLoading() }, styles.IndicatorLoading + " Thinking..."},
		{"error", func(i *status.Indicator) { i.SetError("Failed to get a response.") }, styles.IndicatorError + " Failed to get a response."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ind := status.New()
			tt.setup(ind)

			bar := NewStatusBar(theme)
			bar.SetWidth(100)
			bar.SetIndicator(ind)
			view := bar.View()

			if !strings.Contains(view, tt.want) {
				t.Errorf("View() = %q, want it to contain %q", view, tt.want)
			}
			if w := lipgloss.Width(view); w != 100 {
				t.Errorf("View() width = %d, want 100", w)
			}
		})
	}
}

func TestStatusBar_Shortcuts(t *testing.T) {
	theme := plainTheme(t)
	bar := NewStatusBar(theme)
	bar.SetWidth(120)

	if strings.Contains(bar.View(), "voice") {
		t.Error("voice hint should be hidden without a recognizer")
	}

	bar.VoiceAvailable = true
	if !strings.Contains(bar.View(), "^r voice") {
		t.Error("voice hint should show when a recognizer is available")
	}

	bar.Recording = true
	view := bar.View()
	if !strings.Contains(view, "REC") || !strings.Contains(view, "^r stop") {
		t.Errorf("recording view should show REC and the stop hint: %q", view)
	}

	bar.ModalOpen = true
	if view := bar.View(); !strings.Contains(view, "esc close") || strings.Contains(view, "enter") {
		t.Errorf("modal hints should replace the chat hints: %q", view)
	}
}

func TestStatusBar_NarrowKeepsStatus(t *testing.T) {
	theme := plainTheme(t)
	bar := NewStatusBar(theme)
	bar.SetWidth(30)

	ind := status.New()
	ind.SetError("Speech recognition error: network")
	bar.SetIndicator(ind)

	view := bar.View()
	if strings.Contains(view, "enter") {
		t.Error("narrow bar should drop the shortcut hints")
	}
	if !strings.HasPrefix(strings.TrimSpace(view), styles.IndicatorError) {
		t.Errorf("narrow bar should still lead with the status: %q", view)
	}
	if w := lipgloss.Width(view); w != 30 {
		t.Errorf("View() width = %d, want 30", w)
	}
}

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestMessageBubble_AssistantMarkup(t *testing.T) {
	theme := plainTheme(t)
	msg := &model.Message{
		Role:      model.RoleAssistant,
		Content:   "### Strengths ###\n- Clear opener\n- Good questions",
		Timestamp: "2025-01-15T14:30:00",
	}

	b := NewMessageBubble(msg, theme)
	b.SetWidth(60)
	view := b.View()

	if strings.Contains(view, "###") {
		t.Errorf("heading markers should be stripped: %q", view)
	}
	if !strings.Contains(view, markup.Bullet+"Clear opener") {
		t.Errorf("list items should render with bullets: %q", view)
	}
	if !strings.Contains(view, "Prospect") {
		t.Error("assistant bubble should be labelled Prospect")
	}
	want := markup.FormatTime(msg.Timestamp, language.AmericanEnglish)
	if !strings.Contains(view, want) {
		t.Errorf("bubble should show the time %q: %q", want, view)
	}
}

func TestMessageBubble_UserContentIsLiteral(t *testing.T) {
	theme := plainTheme(t)
	msg := model.NewUserMessage("### not a heading\n- not a list")

	b := NewMessageBubble(msg, theme)
	b.SetWidth(60)
	view := b.View()

	if !strings.Contains(view, "### not a heading") || !strings.Contains(view, "- not a list") {
		t.Errorf("user content should render verbatim: %q", view)
	}
	if strings.Contains(view, markup.Bullet) {
		t.Error("user content should not gain bullets")
	}
}

func TestMessageBubble_RichTextOff(t *testing.T) {
	theme := plainTheme(t)
	msg := model.NewAssistantMessage("### Heading")

	b := NewMessageBubble(msg, theme)
	b.RichText = false
	if !b.Document().IsLiteral() {
		t.Error("with rich text off assistant content should be literal")
	}
}

func TestRenderTranscript(t *testing.T) {
	theme := plainTheme(t)
	msgs := []*model.Message{
		model.NewUserMessage("Hi, do you have a minute?"),
		model.NewAssistantMessage("Make it quick."),
	}

	view := RenderTranscript(theme, msgs, 70, language.BritishEnglish, true)
	if strings.Index(view, "Hi, do you") > strings.Index(view, "Make it quick") {
		t.Error("transcript should keep message order")
	}
}

// =============================================================================
// SIDEBAR TESTS
// =============================================================================

func TestRenderSidebar(t *testing.T) {
	theme := plainTheme(t)
	entries := []session.SidebarEntry{
		{ID: "1", Title: "Cold call with a very long title that will not fit the column"},
		{ID: "2", Title: "Renewal"},
	}

	view := RenderSidebar(theme, entries, "2", 10)
	if !strings.Contains(view, "› Renewal") {
		t.Errorf("active entry should be marked: %q", view)
	}
	if !strings.Contains(view, "...") {
		t.Errorf("long titles should be truncated: %q", view)
	}
	for _, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > SidebarWidth {
			t.Errorf("line %q is %d wide, want <= %d", line, w, SidebarWidth)
		}
	}
}

// =============================================================================
// MODAL VIEW TESTS
// =============================================================================

func TestModalView_HitTest(t *testing.T) {
	theme := plainTheme(t)
	v := NewModalView(theme)
	v.SetSize(100, 40)

	// Box is 90x38 at (5, 1); the title row sits inside the border and padding.
	tests := []struct {
		name string
		x, y int
		want feedback.Target
	}{
		{"corner", 0, 0, feedback.TargetBackdrop},
		{"right of box", 96, 10, feedback.TargetBackdrop},
		{"middle", 50, 20, feedback.TargetContent},
		{"close control", 90, 3, feedback.TargetClose},
		{"title text", 10, 3, feedback.TargetContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.HitTest(tt.x, tt.y); got != tt.want {
				t.Errorf("HitTest(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestModalView_View(t *testing.T) {
	theme := plainTheme(t)
	v := NewModalView(theme)
	v.SetSize(100, 40)

	_, bh := v.BodySize()
	body := strings.TrimSuffix(strings.Repeat("line\n", bh), "\n")
	view := v.View(body)

	if h := lipgloss.Height(view); h != 40 {
		t.Errorf("modal should cover the screen height, got %d", h)
	}
	for _, want := range []string{"Sales Feedback", closeControl, "esc close"} {
		if !strings.Contains(view, want) {
			t.Errorf("modal is missing %q", want)
		}
	}
}

// =============================================================================
// LANDING TESTS
// =============================================================================

func TestLanding_Rotation(t *testing.T) {
	theme := plainTheme(t)
	l := NewLanding(theme, nil)

	if l.Index() != 0 {
		t.Fatalf("carousel should start at 0, got %d", l.Index())
	}

	l, cmd := l.Update(LandingTickMsg{Gen: 0})
	if l.Index() != 1 || cmd == nil {
		t.Errorf("tick should advance and reschedule, index=%d cmd=%v", l.Index(), cmd)
	}

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if l.Index() != 0 {
		t.Errorf("left should go back, got %d", l.Index())
	}

	// The key press restarted the timer, so the old chain is ignored.
	l, cmd = l.Update(LandingTickMsg{Gen: 0})
	if l.Index() != 0 || cmd != nil {
		t.Errorf("stale tick should be ignored, index=%d", l.Index())
	}
}

func TestLanding_Wraps(t *testing.T) {
	theme := plainTheme(t)
	l := NewLanding(theme, []Testimonial{{Quote: "a"}, {Quote: "b"}})

	l.Prev()
	if l.Current().Quote != "b" {
		t.Errorf("Prev from the first should wrap to the last, got %q", l.Current().Quote)
	}
	l.Next()
	if l.Current().Quote != "a" {
		t.Errorf("Next from the last should wrap to the first, got %q", l.Current().Quote)
	}
}

func TestLanding_View(t *testing.T) {
	theme := plainTheme(t)
	l := NewLanding(theme, nil)
	l.SetSize(100, 30)

	view := l.View()
	if !strings.Contains(view, "Sales Trainer") {
		t.Error("landing should show the product title")
	}
	if !strings.Contains(view, "●") {
		t.Error("landing should show the carousel dots")
	}
}

// =============================================================================
// STRENGTH METER TESTS
// =============================================================================

func TestRenderStrengthMeter(t *testing.T) {
	theme := plainTheme(t)

	tests := []struct {
		password string
		want     string
		filled   int
	}{
		{"abc", "Weak", 2},
		{"abcdefgh1", "Medium", 6},
		{"Abcdefgh1!xyz", "Strong", 12},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			view := RenderStrengthMeter(theme, tt.password)
			if !strings.HasSuffix(view, tt.want) {
				t.Errorf("meter = %q, want suffix %q", view, tt.want)
			}
			if got := strings.Count(view, "█"); got != tt.filled {
				t.Errorf("filled cells = %d, want %d", got, tt.filled)
			}
		})
	}
}

func TestRenderPolicyHints(t *testing.T) {
	theme := plainTheme(t)
	view := RenderPolicyHints(theme, "abc1", 8)

	if !strings.Contains(view, "✓ A digit") {
		t.Errorf("met rule should be ticked: %q", view)
	}
	if !strings.Contains(view, "· At least 8 characters") {
		t.Errorf("unmet rule should not be ticked: %q", view)
	}
}
