// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strings"
)

// Bullet prefixes list items in plain and terminal output.
const Bullet = "• "

// Plain renders a document as plain text with the markup removed.
// Headings become bare lines, list items get a bullet, breaks become one
// empty line. Used for the feedback export.
func Plain(doc Document) string {
	var lines []string

	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case KindHeading:
			lines = append(lines, blk.Text)
		case KindList:
			for _, item := range blk.Items {
				lines = append(lines, Bullet+item)
			}
		case KindParagraph:
			lines = append(lines, blk.Lines...)
		case KindBreak:
			lines = append(lines, "")
		case KindLiteral:
			lines = append(lines, blk.Text)
		}
	}

	return strings.Join(lines, "\n")
}

// Markdown renders a document as CommonMark for glamour. Blocks are
// separated by blank lines so a paragraph after a list is not swallowed
// into the last item; breaks are therefore implicit.
func Markdown(doc Document) string {
	var parts []string

	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case KindHeading:
			parts = append(parts, headingPrefix+EscapeMarkdown(blk.Text))
		case KindList:
			items := make([]string, len(blk.Items))
			for i, item := range blk.Items {
				items[i] = itemPrefix + EscapeMarkdown(item)
			}
			parts = append(parts, strings.Join(items, "\n"))
		case KindParagraph:
			parts = append(parts, hardBreaks(blk.Lines))
		case KindLiteral:
			parts = append(parts, hardBreaks(strings.Split(blk.Text, "\n")))
		}
	}

	return strings.Join(parts, "\n\n")
}

// hardBreaks escapes each line and joins them with hard line breaks
// (two trailing spaces).
func hardBreaks(lines []string) string {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = EscapeMarkdown(line)
	}
	return strings.Join(escaped, "  \n")
}

var markdownSpecial = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`#`, `\#`,
	`-`, `\-`,
	`+`, `\+`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`|`, `\|`,
	`!`, `\!`,
	`~`, `\~`,
	`=`, `\=`,
	`&`, `\&`,
)

// EscapeMarkdown backslash-escapes characters CommonMark would interpret,
// so glamour shows s as written. A leading "1." or "1)" is escaped too,
// and leading indentation is dropped since it would open a code block.
func EscapeMarkdown(s string) string {
	s = markdownSpecial.Replace(strings.TrimLeft(s, " \t"))

	digits := len(s) - len(strings.TrimLeft(s, "0123456789"))
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		s = s[:digits] + `\` + s[digits:]
	}
	return s
}
