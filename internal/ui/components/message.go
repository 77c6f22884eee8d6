// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"github.com/salestrainer/salestrainer-tui/internal/markup"
	"github.com/salestrainer/salestrainer-tui/internal/model"
	"github.com/salestrainer/salestrainer-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// minBubbleWidth keeps bubbles readable on very narrow terminals.
const minBubbleWidth = 20

// MessageBubble renders one transcript entry: a header with the role and
// the localized time, then the content in a bordered bubble.
type MessageBubble struct {
	Message *model.Message
	Width   int

	// Locale picks the clock format for the timestamp.
	Locale language.Tag

	// RichText parses assistant markup. User content is always literal.
	RichText bool

	theme *styles.Theme
}

// NewMessageBubble creates a new MessageBubble
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:  msg,
		Width:    80,
		Locale:   language.AmericanEnglish,
		RichText: true,
		theme:    theme,
	}
}

// SetWidth sets the bubble width
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// Document returns the block structure the bubble displays.
func (b *MessageBubble) Document() markup.Document {
	if b.Message == nil {
		return markup.Document{}
	}
	if !b.RichText {
		return markup.Literal(b.Message.Content)
	}
	return markup.ForMessage(b.Message)
}

// View renders the message bubble
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}

	style := b.theme.AssistantBubble
	align := lipgloss.Left
	if b.Message.IsUser() {
		style = b.theme.UserBubble
		align = lipgloss.Right
	}

	// Bubble frame: border, padding and the side margin.
	inner := b.Width - style.GetHorizontalFrameSize()
	if inner < minBubbleWidth {
		inner = minBubbleWidth
	}

	r := &markup.TerminalRenderer{Width: inner, Styles: b.theme.MarkupStyles()}
	body := r.Render(b.Document())
	if strings.TrimSpace(body) == "" {
		body = "..."
	}

	header := b.theme.MessageRole.Render(b.Message.Role.DisplayName()) +
		" " + b.theme.MessageTime.Render(markup.FormatTime(b.Message.Timestamp, b.Locale))

	block := lipgloss.JoinVertical(align, header, style.Render(body))
	if b.Width > 0 {
		return lipgloss.PlaceHorizontal(b.Width, align, block)
	}
	return block
}

// RenderTranscript renders every message of a conversation separated by a
// blank line.
func RenderTranscript(theme *styles.Theme, msgs []*model.Message, width int, locale language.Tag, richText bool) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		b := NewMessageBubble(msg, theme)
		b.Width = width
		b.Locale = locale
		b.RichText = richText
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}
