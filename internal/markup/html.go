// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// HTML renders a document as an HTML fragment. All text is escaped, so
// content can never inject markup of its own.
func HTML(doc Document) string {
	var b strings.Builder

	for _, blk := range doc.Blocks {
		switch blk.Kind {
		case KindHeading:
			b.WriteString("<h3>")
			b.WriteString(html.EscapeString(blk.Text))
			b.WriteString("</h3>")

		case KindList:
			b.WriteString("<ul>")
			for _, item := range blk.Items {
				b.WriteString("<li>")
				b.WriteString(html.EscapeString(item))
				b.WriteString("</li>")
			}
			b.WriteString("</ul>")

		case KindParagraph:
			b.WriteString("<p>")
			for i, line := range blk.Lines {
				if i > 0 {
					b.WriteString("<br>")
				}
				b.WriteString(html.EscapeString(line))
			}
			b.WriteString("</p>")

		case KindBreak:
			b.WriteString("<br>")

		case KindLiteral:
			b.WriteString(html.EscapeString(blk.Text))
		}
	}

	return b.String()
}
