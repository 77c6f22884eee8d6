// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/salestrainer/salestrainer-tui/internal/util"
)

// TerminalStyles holds the lipgloss styles used by the terminal renderer.
type TerminalStyles struct {
	Heading lipgloss.Style
	Bullet  lipgloss.Style
	Text    lipgloss.Style
	Literal lipgloss.Style
}

// DefaultTerminalStyles returns unthemed styles: bold headings, plain text.
func DefaultTerminalStyles() TerminalStyles {
	return TerminalStyles{
		Heading: lipgloss.NewStyle().Bold(true),
		Bullet:  lipgloss.NewStyle(),
		Text:    lipgloss.NewStyle(),
		Literal: lipgloss.NewStyle(),
	}
}

// TerminalRenderer renders documents for a terminal of a given width.
type TerminalRenderer struct {
	// Width is the column budget; <= 0 disables wrapping.
	Width  int
	Styles TerminalStyles
}

// NewTerminalRenderer creates a renderer with default styles.
func NewTerminalRenderer(width int) *TerminalRenderer {
	return &TerminalRenderer{Width: width, Styles: DefaultTerminalStyles()}
}

// Render returns the document as styled terminal lines joined by "\n".
func (r *TerminalRenderer) Render(doc Document) string {
	var lines []string

	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case KindHeading:
			for _, l := range util.WrapWidth(blk.Text, r.Width) {
				lines = append(lines, r.Styles.Heading.Render(l))
			}

		case KindList:
			indent := strings.Repeat(" ", runewidth.StringWidth(Bullet))
			for _, item := range blk.Items {
				wrapped := util.WrapWidth(item, r.inner(indent))
				for i, l := range wrapped {
					prefix := indent
					if i == 0 {
						prefix = r.Styles.Bullet.Render(Bullet)
					}
					lines = append(lines, prefix+r.Styles.Text.Render(l))
				}
			}

		case KindParagraph:
			for _, line := range blk.Lines {
				for _, l := range util.WrapWidth(line, r.Width) {
					lines = append(lines, r.Styles.Text.Render(l))
				}
			}

		case KindBreak:
			lines = append(lines, "")

		case KindLiteral:
			for _, l := range util.WrapWidth(blk.Text, r.Width) {
				lines = append(lines, r.Styles.Literal.Render(l))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// inner is the width left after a prefix.
func (r *TerminalRenderer) inner(prefix string) int {
	if r.Width <= 0 {
		return 0
	}
	w := r.Width - runewidth.StringWidth(prefix)
	if w < 1 {
		w = 1
	}
	return w
}
