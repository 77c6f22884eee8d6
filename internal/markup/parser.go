// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strings"

	"github.com/salestrainer/salestrainer-tui/internal/model"
)

// =============================================================================
// BLOCK TYPES
// =============================================================================

// BlockKind identifies the type of a block node.
type BlockKind int

const (
	// KindParagraph is a run of text lines shown with line breaks between them.
	KindParagraph BlockKind = iota
	// KindHeading is a "### " line.
	KindHeading
	// KindList is a run of consecutive "- " lines.
	KindList
	// KindBreak separates content that had one or more blank lines between it.
	KindBreak
	// KindLiteral is unparsed text. User messages are always a single literal.
	KindLiteral
)

// String returns the kind name.
func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindList:
		return "list"
	case KindBreak:
		return "break"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Block is one node of a parsed document.
type Block struct {
	Kind BlockKind

	// Text holds heading and literal text.
	Text string

	// Lines holds paragraph lines, Items holds list items.
	Lines []string
	Items []string
}

// Document is the parsed form of a message body.
type Document struct {
	Blocks []Block
}

// Kinds returns the block kinds in order. Handy for tests and debugging.
func (d Document) Kinds() []BlockKind {
	kinds := make([]BlockKind, len(d.Blocks))
	for i, b := range d.Blocks {
		kinds[i] = b.Kind
	}
	return kinds
}

// IsLiteral reports whether the document is unparsed text.
func (d Document) IsLiteral() bool {
	return len(d.Blocks) == 1 && d.Blocks[0].Kind == KindLiteral
}

// =============================================================================
// PARSING
// =============================================================================

const (
	headingPrefix = "### "
	headingSuffix = " ###"
	itemPrefix    = "- "
)

// Literal wraps text in a single literal block without interpreting it.
func Literal(text string) Document {
	return Document{Blocks: []Block{{Kind: KindLiteral, Text: text}}}
}

// ForMessage parses assistant content and keeps user content literal.
func ForMessage(msg *model.Message) Document {
	if msg == nil {
		return Document{}
	}
	return ForRole(msg.Role, msg.Content)
}

// ForRole parses content for assistant messages only.
func ForRole(role model.Role, content string) Document {
	if role == model.RoleAssistant {
		return Parse(content)
	}
	return Literal(content)
}

// Parse converts assistant-style markup into blocks.
//
// Rules, checked per line:
//   - "### text" is a heading; a trailing " ###" is dropped.
//   - "- text" is a list item. Consecutive items form one list.
//   - A blank line ends the current block. Any number of blank lines between
//     two blocks yields exactly one break; leading and trailing blank lines
//     yield none.
//   - Other lines join the current paragraph, or start one.
//
// A heading or a text line directly after list items ends the list without a
// break. Nothing is nested.
func Parse(content string) Document {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	p := &parser{}
	for _, line := range strings.Split(content, "\n") {
		p.line(line)
	}
	p.flush()

	return Document{Blocks: p.blocks}
}

type parser struct {
	blocks       []Block
	cur          *Block
	pendingBreak bool
}

func (p *parser) line(line string) {
	if strings.TrimSpace(line) == "" {
		p.flush()
		if len(p.blocks) > 0 {
			p.pendingBreak = true
		}
		return
	}

	switch {
	case strings.HasPrefix(line, headingPrefix):
		p.flush()
		text := strings.TrimPrefix(line, headingPrefix)
		text = strings.TrimRight(text, " \t")
		text = strings.TrimSuffix(text, headingSuffix)
		p.emit(Block{Kind: KindHeading, Text: strings.TrimSpace(text)})

	case strings.HasPrefix(line, itemPrefix):
		item := strings.TrimPrefix(line, itemPrefix)
		if p.cur != nil && p.cur.Kind == KindList {
			p.cur.Items = append(p.cur.Items, item)
			return
		}
		p.flush()
		p.open(Block{Kind: KindList, Items: []string{item}})

	default:
		if p.cur != nil && p.cur.Kind == KindParagraph {
			p.cur.Lines = append(p.cur.Lines, line)
			return
		}
		p.flush()
		p.open(Block{Kind: KindParagraph, Lines: []string{line}})
	}
}

// open starts a block that can still grow.
func (p *parser) open(b Block) {
	p.cur = &b
}

// emit appends a finished block, preceded by any pending break.
func (p *parser) emit(b Block) {
	if p.pendingBreak {
		p.blocks = append(p.blocks, Block{Kind: KindBreak})
		p.pendingBreak = false
	}
	p.blocks = append(p.blocks, b)
}

func (p *parser) flush() {
	if p.cur == nil {
		return
	}
	b := *p.cur
	p.cur = nil
	p.emit(b)
}
