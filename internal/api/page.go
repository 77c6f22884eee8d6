// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/salestrainer/salestrainer-tui/internal/model"
)

// Page markers the client looks for in server-rendered HTML.
const (
	csrfMetaName      = "csrf-token"
	csrfInputName     = "csrf_token"
	activeConvAttr    = "data-conversation-id"
	sidebarItemClass  = "conversation-item"
	sidebarItemIDAttr = "data-id"
	sidebarTitleClass = "conversation-title"
	messageClass      = "message"
	messageRoleAttr   = "data-role"
	messageTimeAttr   = "data-timestamp"
	messageBodyClass  = "message-content"
)

// ParseChatPage extracts the anti-forgery token, the active conversation
// and the sidebar entries from an HTML page.
//
// The token comes from <meta name="csrf-token" content="..."> or, failing
// that, a hidden <input name="csrf_token">. The active conversation is the
// first element carrying data-conversation-id. Sidebar entries are elements
// with class "conversation-item" and a data-id; the title is the text of a
// ".conversation-title" child when present, else the element's own text.
// History messages are elements with class "message" and a data-role; the
// content is the text of a ".message-content" child with surrounding
// whitespace trimmed, and data-timestamp carries the server timestamp.
func ParseChatPage(r io.Reader) (*ChatPage, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	page := &ChatPage{}
	var inputToken string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Meta:
				if attr(n, "name") == csrfMetaName && page.CSRFToken == "" {
					page.CSRFToken = attr(n, "content")
				}
			case atom.Input:
				if attr(n, "name") == csrfInputName && inputToken == "" {
					inputToken = attr(n, "value")
				}
			}

			if page.ConversationID == "" {
				if id, ok := attrOK(n, activeConvAttr); ok && id != "" {
					page.ConversationID = id
				}
			}

			if hasClass(n, sidebarItemClass) {
				if id := attr(n, sidebarItemIDAttr); id != "" {
					page.Conversations = append(page.Conversations, ConversationEntry{
						ID:    id,
						Title: sidebarTitle(n),
					})
					// Entries do not nest.
					return
				}
			}

			if hasClass(n, messageClass) {
				if role := model.Role(attr(n, messageRoleAttr)); role.IsValid() {
					page.Messages = append(page.Messages, historyMessage(n, role))
					return
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if page.CSRFToken == "" {
		page.CSRFToken = inputToken
	}
	return page, nil
}

func historyMessage(n *html.Node, role model.Role) *model.Message {
	body := n
	if c := findByClass(n, messageBodyClass); c != nil {
		body = c
	}
	return &model.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   strings.TrimSpace(textContent(body)),
		Timestamp: attr(n, messageTimeAttr),
	}
}

func sidebarTitle(n *html.Node) string {
	if t := findByClass(n, sidebarTitleClass); t != nil {
		return collapseSpace(textContent(t))
	}
	return collapseSpace(textContent(n))
}

func findByClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			return c
		}
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
