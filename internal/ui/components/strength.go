// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/salestrainer/salestrainer-tui/internal/signup"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
)

// meterWidth is the number of cells in the strength meter.
const meterWidth = signup.MaxScore * 2

// RenderStrengthMeter renders a bar filled in proportion to the password's
// score, colored by its strength, followed by the strength name.
//
//	██████░░░░░░ Medium
func RenderStrengthMeter(theme *styles.Theme, password string) string {
	score := signup.Score(password)
	strength := signup.Rate(password)

	filled := score * meterWidth / signup.MaxScore
	style := theme.StrengthStyle(strength)

	bar := style.Render(strings.Repeat("█", filled)) +
		theme.Dot.Render(strings.Repeat("░", meterWidth-filled))
	return bar + " " + style.Render(strength.String())
}

// RenderPolicyHints renders the server's password rules, one per line,
// ticking the ones password already meets.
func RenderPolicyHints(theme *styles.Theme, password string, minLength int) string {
	hints := signup.PolicyHints(password, minLength)
	lines := make([]string, 0, len(hints))
	for _, h := range hints {
		if h.Met {
			lines = append(lines, theme.HintMet.Render("✓ "+h.Text))
		} else {
			lines = append(lines, theme.HintUnmet.Render("· "+h.Text))
		}
	}
	return strings.Join(lines, "\n")
}
