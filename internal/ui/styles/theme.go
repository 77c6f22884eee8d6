// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/salestrainer/salestrainer-tui/internal/markup"
	"github.com/salestrainer/salestrainer-tui/internal/signup"
	"github.com/salestrainer/salestrainer-tui/internal/status"
)

// Theme names accepted by NewThemeFor.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar           lipgloss.Style
	SidebarTitle      lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	MessageRole     lipgloss.Style
	MessageTime     lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer         lipgloss.Style
	InputContainerDisabled lipgloss.Style
	InputPrompt            lipgloss.Style
	InputPlaceholder       lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar      lipgloss.Style
	StatusReady    lipgloss.Style
	StatusLoading  lipgloss.Style
	StatusError    lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style
	ShortcutOff    lipgloss.Style
	VoiceRecording lipgloss.Style

	// ==========================================================================
	// MODAL STYLES
	// ==========================================================================

	ModalBackdrop lipgloss.Style
	ModalBox      lipgloss.Style
	ModalTitle    lipgloss.Style
	ModalHint     lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastError   lipgloss.Style
	ToastSuccess lipgloss.Style

	// ==========================================================================
	// SIGNUP STYLES
	// ==========================================================================

	StrengthWeak   lipgloss.Style
	StrengthMedium lipgloss.Style
	StrengthStrong lipgloss.Style
	HintMet        lipgloss.Style
	HintUnmet      lipgloss.Style

	// ==========================================================================
	// LANDING STYLES
	// ==========================================================================

	LandingTitle   lipgloss.Style
	LandingTagline lipgloss.Style
	Quote          lipgloss.Style
	QuoteAuthor    lipgloss.Style
	Dot            lipgloss.Style
	DotActive      lipgloss.Style
}

// NewTheme creates a theme for the detected terminal background.
func NewTheme() *Theme {
	return NewThemeFor(ThemeAuto)
}

// NewThemeFor creates a theme. name is ThemeDark, ThemeLight or ThemeAuto;
// anything else is treated as auto. NO_COLOR drops the profile to ASCII.
func NewThemeFor(name string) *Theme {
	colorProfile := termenv.EnvColorProfile()

	var isDark bool
	switch name {
	case ThemeDark:
		isDark = true
	case ThemeLight:
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)
	lipgloss.SetColorProfile(colorProfile)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true).
		MarginBottom(1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.MessageRole = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.MessageTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Teal).
		Padding(0, 1)

	t.InputContainerDisabled = t.InputContainer.
		BorderForeground(Overlay).
		Foreground(TextMuted)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusReady = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusLoading = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ShortcutOff = lipgloss.NewStyle().
		Foreground(Overlay).
		Strikethrough(true)

	t.VoiceRecording = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 1)

	// Modal
	t.ModalBackdrop = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ModalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Indigo).
		Background(Surface).
		Padding(1, 2)

	t.ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)

	t.ModalHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		MarginTop(1)

	// Toasts
	t.ToastError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Padding(0, 1)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Padding(0, 1)

	// Signup
	t.StrengthWeak = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.StrengthMedium = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.StrengthStrong = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.HintMet = lipgloss.NewStyle().Foreground(Emerald)
	t.HintUnmet = lipgloss.NewStyle().Foreground(TextMuted)

	// Landing
	t.LandingTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.LandingTagline = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Quote = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Italic(true)

	t.QuoteAuthor = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Dot = lipgloss.NewStyle().Foreground(Overlay)
	t.DotActive = lipgloss.NewStyle().Foreground(Teal)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ShowSidebar reports whether the terminal is wide enough for the sidebar.
func (t *Theme) ShowSidebar() bool {
	return t.Width >= 90
}

// Plain reports whether the terminal has no color at all.
func (t *Theme) Plain() bool {
	return t.ColorProfile == termenv.Ascii
}

// StatusStyle returns the style for a status state.
func (t *Theme) StatusStyle(s status.State) lipgloss.Style {
	switch s {
	case status.Loading:
		return t.StatusLoading
	case status.Error:
		return t.StatusError
	default:
		return t.StatusReady
	}
}

// StatusIcon returns the state's icon, or an ASCII marker without color.
func (t *Theme) StatusIcon(s status.State) string {
	if !t.Plain() {
		return s.Icon()
	}
	switch s {
	case status.Loading:
		return IndicatorLoading
	case status.Error:
		return IndicatorError
	default:
		return IndicatorReady
	}
}

// StrengthStyle returns the meter style for a password strength.
func (t *Theme) StrengthStyle(s signup.Strength) lipgloss.Style {
	switch s {
	case signup.Strong:
		return t.StrengthStrong
	case signup.Medium:
		return t.StrengthMedium
	default:
		return t.StrengthWeak
	}
}

// MarkupStyles returns the styles for rendering assistant markup.
func (t *Theme) MarkupStyles() markup.TerminalStyles {
	return markup.TerminalStyles{
		Heading: lipgloss.NewStyle().Bold(true).Foreground(Indigo),
		Bullet:  lipgloss.NewStyle().Foreground(Teal),
		Text:    lipgloss.NewStyle(),
		Literal: lipgloss.NewStyle(),
	}
}
