// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/salestrainer/salestrainer-tui/internal/session"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
	"github.com/salestrainer/salestrainer-tui/internal/util"
)

// SidebarWidth is the sidebar's total width including its border.
const SidebarWidth = 28

// RenderSidebar renders the conversation list with the active entry
// highlighted. Titles are truncated to the column, never wrapped.
func RenderSidebar(theme *styles.Theme, entries []session.SidebarEntry, activeID string, height int) string {
	inner := SidebarWidth - theme.Sidebar.GetHorizontalFrameSize()

	lines := []string{theme.SidebarTitle.Render("Conversations")}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		prefix := "  "
		style := theme.SidebarItem
		if e.ID == activeID {
			prefix = "› "
			style = theme.SidebarItemActive
		}
		lines = append(lines, style.Render(prefix+util.TruncateWidth(title, inner-2)))
	}
	if len(entries) == 0 {
		lines = append(lines, theme.SidebarItem.Render("  none yet"))
	}

	body := strings.Join(lines, "\n")
	style := theme.Sidebar.Width(SidebarWidth - theme.Sidebar.GetHorizontalBorderSize())
	if height > 0 {
		style = style.Height(height).MaxHeight(height)
	}
	return style.Render(body)
}
