// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/salestrainer/salestrainer-tui/internal/feedback"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
)

// =============================================================================
// FEEDBACK MODAL VIEW
// =============================================================================

const (
	// closeControl sits at the right end of the modal's title row.
	closeControl = "[x]"

	maxModalWidth = 90
	modalTitle    = "Sales Feedback"
	modalHint     = "esc close · ^s save as text · ↑/↓ scroll"
)

// ModalView lays out the feedback modal centered over a dimmed backdrop and
// maps screen coordinates back to modal targets.
type ModalView struct {
	// Screen size
	Width  int
	Height int

	theme *styles.Theme
}

// NewModalView creates a modal view for an 80x24 screen.
func NewModalView(theme *styles.Theme) *ModalView {
	return &ModalView{Width: 80, Height: 24, theme: theme}
}

// SetSize updates the screen dimensions.
func (v *ModalView) SetSize(width, height int) {
	v.Width = width
	v.Height = height
}

// BoxSize returns the outer size of the modal box.
func (v *ModalView) BoxSize() (int, int) {
	w := v.Width - 4
	if w > maxModalWidth {
		w = maxModalWidth
	}
	if w < 20 {
		w = 20
	}
	h := v.Height - 2
	if h < 8 {
		h = 8
	}
	return w, h
}

// BodySize returns the area left for the scrolling feedback text.
func (v *ModalView) BodySize() (int, int) {
	w, h := v.BoxSize()
	box := v.theme.ModalBox
	bw := w - box.GetHorizontalFrameSize()
	// Title and hint rows plus their margins.
	bh := h - box.GetVerticalFrameSize() - 2 - v.theme.ModalTitle.GetVerticalMargins() - v.theme.ModalHint.GetVerticalMargins()
	if bw < 1 {
		bw = 1
	}
	if bh < 1 {
		bh = 1
	}
	return bw, bh
}

// origin returns the top-left corner of the box on screen.
func (v *ModalView) origin() (int, int) {
	w, h := v.BoxSize()
	x := (v.Width - w) / 2
	y := (v.Height - h) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// HitTest maps a click at screen cell (x, y) to a modal target.
func (v *ModalView) HitTest(x, y int) feedback.Target {
	ox, oy := v.origin()
	w, h := v.BoxSize()
	if x < ox || x >= ox+w || y < oy || y >= oy+h {
		return feedback.TargetBackdrop
	}

	// The close control is right-aligned on the title row.
	box := v.theme.ModalBox
	titleRow := oy + box.GetBorderTopSize() + box.GetPaddingTop()
	closeEnd := ox + w - box.GetBorderRightSize() - box.GetPaddingRight()
	closeStart := closeEnd - lipgloss.Width(closeControl)
	if y == titleRow && x >= closeStart && x < closeEnd {
		return feedback.TargetClose
	}
	return feedback.TargetContent
}

// View renders the modal box containing body, which the caller has already
// sized to BodySize (usually a viewport's view).
func (v *ModalView) View(body string) string {
	w, h := v.BoxSize()
	bw, _ := v.BodySize()

	title := v.theme.ModalTitle.Render(modalTitle)
	gap := bw - lipgloss.Width(title) - lipgloss.Width(closeControl)
	if gap < 1 {
		gap = 1
	}
	titleRow := lipgloss.JoinHorizontal(lipgloss.Top,
		title,
		strings.Repeat(" ", gap),
		v.theme.StatusError.Render(closeControl),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleRow,
		body,
		v.theme.ModalHint.Render(modalHint),
	)

	box := v.theme.ModalBox.
		Width(w - v.theme.ModalBox.GetHorizontalBorderSize()).
		Height(h - v.theme.ModalBox.GetVerticalBorderSize()).
		MaxHeight(h).
		Render(content)

	return lipgloss.Place(v.Width, v.Height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(styles.Backdrop),
	)
}
