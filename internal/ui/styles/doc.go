// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the Sales Trainer TUI.

All colors use Lip Gloss AdaptiveColor so one palette serves light and dark
terminals.

# Color System (colors.go)

  - Indigo - brand accent, headings, the assistant (prospect) side
  - Teal - the user (salesperson) side, prompts, focus
  - Emerald - ready state, strong passwords
  - Amber - loading state, medium passwords
  - Rose - errors, weak passwords

# Theme System (theme.go)

The Theme struct carries every style the views use and records what the
terminal can do:

	theme := styles.NewThemeFor("auto")
	if theme.IsDark {
		// dark background detected or forced
	}

The theme name comes from the [ui] theme setting: "dark", "light" or "auto".
NO_COLOR is honored through termenv.
*/
package styles
