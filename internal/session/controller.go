// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/config"
	"github.com/salestrainer/salestrainer-tui/internal/model"
)

// Fallback messages shown when the server gives no error text.
const (
	SendFailedMessage     = "Failed to get a response. Please try again."
	FeedbackFailedMessage = "Failed to generate feedback. Please try again."
	DeleteFailedMessage   = "Failed to delete conversation. Please try again."
)

// Transport is the part of the API client the controller uses.
type Transport interface {
	SendMessage(ctx context.Context, conversationID, text string) (*model.Message, error)
	GetFeedback(ctx context.Context, conversationID string) (string, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller turns user input into requests and state changes.
//
// It is not safe for concurrent use. The Begin and Complete steps must run
// on the goroutine that owns the State (the UI event loop); only Dispatch
// and FetchFeedback may run elsewhere, and they touch nothing but the
// transport.
type Controller struct {
	transport   Transport
	state       *State
	minFeedback int

	// generation changes whenever the active conversation is replaced so
	// that replies for an abandoned conversation are dropped.
	generation   uint64
	feedbackBusy bool
}

// NewController creates a controller with no open conversation.
// minFeedback <= 0 uses config.DefaultMinMessages.
func NewController(t Transport, minFeedback int) *Controller {
	if minFeedback <= 0 {
		minFeedback = config.DefaultMinMessages
	}
	return &Controller{
		transport:   t,
		state:       newState(),
		minFeedback: minFeedback,
	}
}

// State returns the view state.
func (c *Controller) State() *State {
	return c.state
}

// MinFeedbackMessages is the message count that enables feedback.
func (c *Controller) MinFeedbackMessages() int {
	return c.minFeedback
}

// SetInput replaces the input text, as typing or voice capture does.
func (c *Controller) SetInput(text string) {
	c.state.Input.Text = text
}

// SetInputHeight records the input's current height in lines.
func (c *Controller) SetInputHeight(lines int) {
	if lines < MinInputHeight {
		lines = MinInputHeight
	}
	c.state.Input.Height = lines
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// OpenConversation makes id the active conversation with the given history.
// An empty title means the default. Any outstanding request is abandoned.
func (c *Controller) OpenConversation(id, title string, history []*model.Message) {
	conv := model.NewConversation(id)
	if title != "" {
		conv.Title = title
	}
	for _, m := range history {
		conv.AddMessage(m)
	}

	c.generation++
	c.feedbackBusy = false

	s := c.state
	s.Conversation = conv
	s.InFlight = false
	s.Input = Input{Enabled: true, Height: MinInputHeight, Focused: true}
	s.FeedbackEnabled = conv.MessageCount() >= c.minFeedback
	s.Modal.Close()
	s.Status.SetReady()

	log.Printf("CONVERSATION_OPENED | id=%s messages=%d", id, conv.MessageCount())
}

// OpenPage opens the conversation a chat page shows and takes its sidebar.
func (c *Controller) OpenPage(page *api.ChatPage) {
	c.SetSidebar(page.Conversations)
	c.OpenConversation(page.ConversationID, page.Title(page.ConversationID), page.Messages)
}

// SetSidebar replaces the sidebar entries.
func (c *Controller) SetSidebar(entries []api.ConversationEntry) {
	sidebar := make([]SidebarEntry, len(entries))
	for i, e := range entries {
		sidebar[i] = SidebarEntry{ID: e.ID, Title: e.Title}
	}
	c.state.Sidebar = sidebar
}

// DeleteConversation deletes id on the server and applies the outcome with
// CompleteDelete.
func (c *Controller) DeleteConversation(ctx context.Context, id string) error {
	err := c.transport.DeleteConversation(ctx, id)
	c.CompleteDelete(id, err)
	return err
}

// CompleteDelete applies the outcome of deleting id. On success the entry
// leaves the sidebar and, if id was active, the conversation is closed.
func (c *Controller) CompleteDelete(id string, err error) {
	if err != nil {
		c.state.Status.SetError(api.UserMessage(err, DeleteFailedMessage))
		log.Printf("CONVERSATION_DELETE_FAILED | id=%s type=%s err=%v", id, api.TypeOf(err), err)
		return
	}

	kept := c.state.Sidebar[:0]
	for _, e := range c.state.Sidebar {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.state.Sidebar = kept

	if c.state.ConversationID() == id {
		c.generation++
		c.feedbackBusy = false
		c.state.Conversation = nil
		c.state.InFlight = false
		c.state.FeedbackEnabled = false
		c.state.Input.Enabled = true
		c.state.Modal.Close()
	}
	c.state.Status.SetReady()

	log.Printf("CONVERSATION_DELETED | id=%s", id)
}

// =============================================================================
// SUBMIT
// =============================================================================

// PendingMessage is a message echoed locally whose request has not been
// made yet.
type PendingMessage struct {
	ConversationID string
	Text           string
	Echo           *model.Message
	generation     uint64
}

// MessageResult is the outcome of dispatching a PendingMessage.
type MessageResult struct {
	Pending *PendingMessage
	Reply   *model.Message
	Err     error
}

// BeginSubmit validates and echoes text. It returns nil, doing nothing,
// when the trimmed text is empty, a request is already in flight, or no
// conversation is open. Otherwise the user message is rendered, the input
// is disabled, cleared and shrunk, and status goes to loading, all before
// the returned request is dispatched.
func (c *Controller) BeginSubmit(text string) *PendingMessage {
	s := c.state
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" || s.InFlight || s.Conversation == nil {
		return nil
	}

	echo := model.NewUserMessage(text)
	s.Conversation.AddMessage(echo)

	s.InFlight = true
	s.Input.Enabled = false
	s.Input.Text = ""
	s.Input.Height = MinInputHeight
	s.Status.SetLoading()

	log.Printf("CHAT_SUBMIT | conversation=%s chars=%d", s.Conversation.ID, len(text))

	return &PendingMessage{
		ConversationID: s.Conversation.ID,
		Text:           text,
		Echo:           echo,
		generation:     c.generation,
	}
}

// Dispatch sends p. It only touches the transport and may run off the UI
// goroutine.
func (c *Controller) Dispatch(ctx context.Context, p *PendingMessage) MessageResult {
	reply, err := c.transport.SendMessage(ctx, p.ConversationID, p.Text)
	return MessageResult{Pending: p, Reply: reply, Err: err}
}

// CompleteSubmit applies a dispatch result. Results for a conversation
// that has since been replaced are dropped.
func (c *Controller) CompleteSubmit(r MessageResult) {
	if r.Pending == nil || r.Pending.generation != c.generation {
		return
	}

	s := c.state
	s.InFlight = false
	s.Input.Enabled = true

	if r.Err == nil && r.Reply == nil {
		r.Err = &api.ClientError{Type: api.ErrTypeDecode, Message: "reply carried no message"}
	}
	if r.Err != nil {
		msg := api.UserMessage(r.Err, SendFailedMessage)
		s.Status.SetError(msg)
		log.Printf("CHAT_FAILED | conversation=%s type=%s err=%v", r.Pending.ConversationID, api.TypeOf(r.Err), r.Err)
		return
	}

	conv := s.Conversation
	conv.AddMessage(r.Reply)

	if conv.HasDefaultTitle() {
		if title, ok := model.DeriveTitle(r.Pending.Text); ok {
			conv.Title = title
			for i := range s.Sidebar {
				if s.Sidebar[i].ID == conv.ID {
					s.Sidebar[i].Title = title
				}
			}
		}
	}

	if conv.MessageCount() >= c.minFeedback && !c.feedbackBusy {
		s.FeedbackEnabled = true
	}

	s.Input.Focused = true
	s.Status.SetReady()

	log.Printf("CHAT_REPLY | conversation=%s messages=%d", conv.ID, conv.MessageCount())
}

// SubmitMessage runs BeginSubmit, Dispatch and CompleteSubmit in turn. It
// reports whether a request was made.
func (c *Controller) SubmitMessage(ctx context.Context, text string) bool {
	p := c.BeginSubmit(text)
	if p == nil {
		return false
	}
	c.CompleteSubmit(c.Dispatch(ctx, p))
	return true
}

// =============================================================================
// FEEDBACK
// =============================================================================

// PendingFeedback is a feedback request that has not been made yet.
type PendingFeedback struct {
	ConversationID string
	generation     uint64
}

// FeedbackResult is the outcome of fetching feedback.
type FeedbackResult struct {
	Pending *PendingFeedback
	Text    string
	Err     error
}

// BeginFeedback disables the feedback control and sets status to loading.
// It returns nil when no conversation is open or the control is disabled,
// which is also the case while a feedback request is outstanding.
func (c *Controller) BeginFeedback() *PendingFeedback {
	s := c.state
	if s.Conversation == nil || !s.FeedbackEnabled {
		return nil
	}

	s.FeedbackEnabled = false
	c.feedbackBusy = true
	s.Status.SetLoading()

	log.Printf("FEEDBACK_REQUEST | conversation=%s", s.Conversation.ID)
	return &PendingFeedback{ConversationID: s.Conversation.ID, generation: c.generation}
}

// FetchFeedback requests the report. Like Dispatch it may run off the UI
// goroutine.
func (c *Controller) FetchFeedback(ctx context.Context, p *PendingFeedback) FeedbackResult {
	text, err := c.transport.GetFeedback(ctx, p.ConversationID)
	return FeedbackResult{Pending: p, Text: text, Err: err}
}

// CompleteFeedback re-enables the control and opens the modal on success.
func (c *Controller) CompleteFeedback(r FeedbackResult) {
	if r.Pending == nil || r.Pending.generation != c.generation {
		return
	}

	s := c.state
	c.feedbackBusy = false
	s.FeedbackEnabled = true

	if r.Err != nil {
		s.Status.SetError(api.UserMessage(r.Err, FeedbackFailedMessage))
		log.Printf("FEEDBACK_FAILED | conversation=%s type=%s err=%v", r.Pending.ConversationID, api.TypeOf(r.Err), r.Err)
		return
	}

	s.Modal.Open(r.Text)
	s.Status.SetReady()
}

// RequestFeedback runs BeginFeedback, FetchFeedback and CompleteFeedback in
// turn. It reports whether a request was made.
func (c *Controller) RequestFeedback(ctx context.Context) bool {
	p := c.BeginFeedback()
	if p == nil {
		return false
	}
	c.CompleteFeedback(c.FetchFeedback(ctx, p))
	return true
}
