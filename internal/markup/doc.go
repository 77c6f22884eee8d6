// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markup turns message bodies into display text.
//
// Assistant replies use a tiny line-oriented markup: "### " headings,
// "- " list items, and blank lines between blocks. Parse converts that
// markup into a Document of blocks, and the renderers (HTML, Plain,
// Markdown, TerminalRenderer) turn a Document into output. User text is
// never parsed; ForRole wraps it in a single literal block.
//
// FormatTime renders the server's ISO-8601 timestamps as a local
// hour:minute string in the clock style of the user's locale.
package markup
