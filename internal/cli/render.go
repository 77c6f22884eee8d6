// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/salestrainer/salestrainer-tui/internal/markup"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

func renderer() *glamour.TermRenderer {
	markdownRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()-4),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	return markdownRenderer
}

// RenderDocument renders parsed markup for stdout. On a color terminal it
// goes through glamour; otherwise, or if glamour fails, it is plain text.
func RenderDocument(doc markup.Document, color bool) string {
	if !color || doc.IsLiteral() {
		return markup.Plain(doc) + "\n"
	}
	r := renderer()
	if r == nil {
		return markup.Plain(doc) + "\n"
	}
	out, err := r.Render(markup.Markdown(doc))
	if err != nil {
		return markup.Plain(doc) + "\n"
	}
	return strings.TrimLeft(out, "\n")
}
