// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/salestrainer/salestrainer-tui/internal/signup"
	"github.com/salestrainer/salestrainer-tui/internal/status"
)

// =============================================================================
// THEME CREATION TESTS
// =============================================================================

func TestNewThemeFor_ForcedBackground(t *testing.T) {
	dark := NewThemeFor(ThemeDark)
	if !dark.IsDark {
		t.Error("dark theme should report IsDark")
	}
	if !lipgloss.HasDarkBackground() {
		t.Error("dark theme should set lipgloss background")
	}

	light := NewThemeFor(ThemeLight)
	if light.IsDark {
		t.Error("light theme should not report IsDark")
	}
	if lipgloss.HasDarkBackground() {
		t.Error("light theme should clear lipgloss dark background")
	}
}

func TestNewThemeFor_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	theme := NewThemeFor(ThemeDark)

	if theme.ColorProfile != termenv.Ascii {
		t.Errorf("ColorProfile = %v, want Ascii under NO_COLOR", theme.ColorProfile)
	}
	if !theme.Plain() {
		t.Error("Plain() should be true under NO_COLOR")
	}
	if got := theme.StatusIcon(status.Error); got != IndicatorError {
		t.Errorf("StatusIcon(Error) = %q, want ASCII marker", got)
	}
}

func TestThemeInitStyles(t *testing.T) {
	theme := NewThemeFor(ThemeDark)

	styles := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Header", theme.Header},
		{"UserBubble", theme.UserBubble},
		{"AssistantBubble", theme.AssistantBubble},
		{"InputContainer", theme.InputContainer},
		{"StatusBar", theme.StatusBar},
		{"ModalBox", theme.ModalBox},
		{"ToastError", theme.ToastError},
	}

	for _, s := range styles {
		if rendered := s.style.Render("test"); rendered == "" {
			t.Errorf("%s style should be initialized", s.name)
		}
	}
}

// =============================================================================
// STATE STYLE TESTS
// =============================================================================

func TestStatusStyle(t *testing.T) {
	theme := NewThemeFor(ThemeDark)

	tests := []struct {
		state status.State
		want  lipgloss.TerminalColor
	}{
		{status.Ready, Emerald},
		{status.Loading, Amber},
		{status.Error, Rose},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := theme.StatusStyle(tt.state).GetForeground(); got != tt.want {
				t.Errorf("foreground = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrengthStyle(t *testing.T) {
	theme := NewThemeFor(ThemeDark)

	tests := []struct {
		strength signup.Strength
		want     lipgloss.TerminalColor
	}{
		{signup.Weak, Rose},
		{signup.Medium, Amber},
		{signup.Strong, Emerald},
	}

	for _, tt := range tests {
		t.Run(tt.strength.String(), func(t *testing.T) {
			if got := theme.StrengthStyle(tt.strength).GetForeground(); got != tt.want {
				t.Errorf("foreground = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShowSidebar(t *testing.T) {
	theme := NewThemeFor(ThemeDark)

	theme.SetSize(80, 24)
	if theme.ShowSidebar() {
		t.Error("80 columns is too narrow for the sidebar")
	}
	theme.SetSize(120, 40)
	if !theme.ShowSidebar() {
		t.Error("120 columns should show the sidebar")
	}
}
