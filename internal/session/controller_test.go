// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/model"
	"github.com/salestrainer/salestrainer-tui/internal/status"
)

// fakeTransport records calls and answers from canned values.
type fakeTransport struct {
	sends     []string
	feedbacks int
	deletes   []string

	// onSend runs inside SendMessage, before it returns.
	onSend func()

	sendErr     error
	feedback    string
	feedbackErr error
	deleteErr   error
}

func (f *fakeTransport) SendMessage(ctx context.Context, id, text string) (*model.Message, error) {
	f.sends = append(f.sends, text)
	if f.onSend != nil {
		f.onSend()
	}
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &model.Message{ID: fmt.Sprintf("r%d", len(f.sends)), Role: model.RoleAssistant, Content: "reply to " + text, Timestamp: "2024-03-05T14:07:00.000000"}, nil
}

func (f *fakeTransport) GetFeedback(ctx context.Context, id string) (string, error) {
	f.feedbacks++
	return f.feedback, f.feedbackErr
}

func (f *fakeTransport) DeleteConversation(ctx context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func newOpenController(history int) (*Controller, *fakeTransport) {
	ft := &fakeTransport{feedback: "### Strengths\n- Rapport"}
	c := NewController(ft, 0)
	var msgs []*model.Message
	for i := 0; i < history; i++ {
		msgs = append(msgs, model.NewUserMessage(fmt.Sprintf("m%d", i)))
	}
	c.SetSidebar([]api.ConversationEntry{{ID: "other", Title: "Other"}, {ID: "c1", Title: model.DefaultTitle}})
	c.OpenConversation("c1", "", msgs)
	return c, ft
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_EchoBeforeRequestAndReplyAfter(t *testing.T) {
	c, ft := newOpenController(0)
	ctx := context.Background()
	s := c.State()

	// Observe the state at the moment the request is made.
	var atSend []model.Role
	var inputEnabled bool
	var statusAtSend status.State
	ft.onSend = func() {
		for _, m := range s.Messages() {
			atSend = append(atSend, m.Role)
		}
		inputEnabled = s.Input.Enabled
		statusAtSend = s.Status.State()
	}

	c.SetInput("Hello there")
	c.SetInputHeight(4)
	require.True(t, c.SubmitMessage(ctx, "  Hello there  "))

	assert.Equal(t, []model.Role{model.RoleUser}, atSend, "exactly one user entry before the request")
	assert.False(t, inputEnabled, "input disabled during the request")
	assert.Equal(t, status.Loading, statusAtSend)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "Hello there", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "reply to Hello there", msgs[1].Content)

	assert.Equal(t, []string{"Hello there"}, ft.sends)
	assert.True(t, s.Input.Enabled)
	assert.True(t, s.Input.Focused)
	assert.Equal(t, "", s.Input.Text)
	assert.Equal(t, MinInputHeight, s.Input.Height)
	assert.False(t, s.InFlight)
	assert.Equal(t, status.Ready, s.Status.State())
}

func TestSubmit_Guards(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Controller)
		text  string
	}{
		{"empty", func(c *Controller) {}, ""},
		{"whitespace only", func(c *Controller) {}, " \t\n "},
		{"in flight", func(c *Controller) { c.BeginSubmit("first message here") }, "second"},
		{"no conversation", func(c *Controller) { c.state.Conversation = nil }, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := newOpenController(0)
			tt.setup(c)
			before := len(c.State().Messages())

			assert.Nil(t, c.BeginSubmit(tt.text))
			assert.False(t, c.SubmitMessage(context.Background(), tt.text))
			assert.Len(t, c.State().Messages(), before, "no new entries")
			assert.Empty(t, ft.sends, "no network calls")
		})
	}
}

func TestSubmit_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server text", &api.ClientError{Type: api.ErrTypeApplication, Message: "rejected", ServerText: "Conversation not found"}, "Conversation not found"},
		{"no server text", &api.ClientError{Type: api.ErrTypeApplication, Message: "rejected"}, SendFailedMessage},
		{"transport", &api.ClientError{Type: api.ErrTypeTransport, Message: "request failed", Cause: errors.New("connection refused")}, api.NetworkErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := newOpenController(0)
			ft.sendErr = tt.err

			require.True(t, c.SubmitMessage(context.Background(), "Are you the decision maker?"))
			s := c.State()
			assert.Len(t, s.Messages(), 1, "echo stays, no assistant entry")
			assert.True(t, s.Input.Enabled)
			assert.False(t, s.InFlight)
			assert.Equal(t, status.Error, s.Status.State())
			assert.Equal(t, tt.want, s.Status.Message())
			assert.Equal(t, model.DefaultTitle, s.Title(), "no title from a failed send")
		})
	}
}

func TestSubmit_StepsAllowOneOutstandingRequest(t *testing.T) {
	c, ft := newOpenController(0)
	ctx := context.Background()

	p := c.BeginSubmit("first question for you")
	require.NotNil(t, p)
	assert.Nil(t, c.BeginSubmit("second"))

	c.CompleteSubmit(c.Dispatch(ctx, p))
	assert.Len(t, ft.sends, 1)

	assert.NotNil(t, c.BeginSubmit("now it is allowed"))
}

func TestSubmit_ReplyForReplacedConversationDropped(t *testing.T) {
	c, _ := newOpenController(0)
	ctx := context.Background()

	p := c.BeginSubmit("what does your week look like")
	require.NotNil(t, p)
	r := c.Dispatch(ctx, p)

	c.OpenConversation("c2", "Second", nil)
	c.CompleteSubmit(r)

	assert.Equal(t, "c2", c.State().ConversationID())
	assert.Empty(t, c.State().Messages())
	assert.Equal(t, "Second", c.State().Title())
}

// =============================================================================
// TITLES
// =============================================================================

func TestSubmit_Title(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Hi", model.DefaultTitle},
		{"Hi there", model.DefaultTitle},
		{"Hi there friend", "Hi there friend..."},
		{"I sell  cloud\tbackup to dentists in Ohio", "I sell cloud backup to..."},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c, _ := newOpenController(0)
			require.True(t, c.SubmitMessage(context.Background(), tt.text))

			s := c.State()
			assert.Equal(t, tt.want, s.Title())
			assert.Equal(t, tt.want, s.Sidebar[1].Title, "sidebar mirrors the title")
			assert.Equal(t, "Other", s.Sidebar[0].Title, "other entries untouched")
		})
	}
}

func TestSubmit_TitleOnlyFromDefault(t *testing.T) {
	c, _ := newOpenController(0)
	c.OpenConversation("c1", "Budget objections", nil)

	require.True(t, c.SubmitMessage(context.Background(), "a long enough opening message"))
	assert.Equal(t, "Budget objections", c.State().Title())
}

// =============================================================================
// FEEDBACK
// =============================================================================

func TestFeedbackEnabledAtFourMessages(t *testing.T) {
	c, _ := newOpenController(0)
	ctx := context.Background()
	s := c.State()

	require.True(t, c.SubmitMessage(ctx, "one"))
	assert.Len(t, s.Messages(), 2)
	assert.False(t, s.FeedbackEnabled, "disabled at 2 messages")

	p := c.BeginSubmit("two")
	require.NotNil(t, p)
	assert.Len(t, s.Messages(), 3)
	assert.False(t, s.FeedbackEnabled, "disabled at 3 messages")

	c.CompleteSubmit(c.Dispatch(ctx, p))
	assert.Len(t, s.Messages(), 4)
	assert.True(t, s.FeedbackEnabled, "enabled once 4 messages are rendered")
}

func TestFeedbackEnabledFromHistory(t *testing.T) {
	c, _ := newOpenController(4)
	assert.True(t, c.State().FeedbackEnabled)

	c.OpenConversation("c3", "", nil)
	assert.False(t, c.State().FeedbackEnabled)
}

func TestRequestFeedback(t *testing.T) {
	c, ft := newOpenController(4)
	ctx := context.Background()
	s := c.State()

	p := c.BeginFeedback()
	require.NotNil(t, p)
	assert.False(t, s.FeedbackEnabled)
	assert.Equal(t, status.Loading, s.Status.State())
	assert.Nil(t, c.BeginFeedback(), "no second request while one is outstanding")

	c.CompleteFeedback(c.FetchFeedback(ctx, p))
	assert.Equal(t, 1, ft.feedbacks)
	assert.True(t, s.FeedbackEnabled)
	assert.True(t, s.Modal.IsActive())
	assert.True(t, s.Modal.ScrollLocked())
	assert.Equal(t, ft.feedback, s.Modal.Text())
	assert.Equal(t, status.Ready, s.Status.State())
}

func TestRequestFeedback_Guards(t *testing.T) {
	c, ft := newOpenController(2)
	assert.False(t, c.RequestFeedback(context.Background()), "control disabled below the threshold")

	c.state.Conversation = nil
	c.state.FeedbackEnabled = true
	assert.False(t, c.RequestFeedback(context.Background()), "no conversation")
	assert.Zero(t, ft.feedbacks)
}

func TestRequestFeedback_Failure(t *testing.T) {
	c, ft := newOpenController(4)
	ft.feedbackErr = &api.ClientError{Type: api.ErrTypeApplication, Message: "rejected", ServerText: "Not enough conversation history to generate feedback"}

	require.True(t, c.RequestFeedback(context.Background()))
	s := c.State()
	assert.True(t, s.FeedbackEnabled)
	assert.False(t, s.Modal.IsActive())
	assert.Equal(t, status.Error, s.Status.State())
	assert.Equal(t, "Not enough conversation history to generate feedback", s.Status.Message())
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

func TestOpenPage(t *testing.T) {
	c := NewController(&fakeTransport{}, 0)
	page := &api.ChatPage{
		ConversationID: "7",
		Conversations:  []api.ConversationEntry{{ID: "7", Title: "Discovery call"}, {ID: "9", Title: "New Conversation"}},
		Messages:       []*model.Message{model.NewUserMessage("hi"), model.NewAssistantMessage("hello")},
	}
	c.OpenPage(page)

	s := c.State()
	assert.Equal(t, "7", s.ConversationID())
	assert.Equal(t, "Discovery call", s.Title())
	assert.Len(t, s.Messages(), 2)
	assert.Len(t, s.Sidebar, 2)
	assert.Equal(t, status.Ready, s.Status.State())
}

func TestDeleteConversation(t *testing.T) {
	c, ft := newOpenController(4)
	ctx := context.Background()

	require.NoError(t, c.DeleteConversation(ctx, "other"))
	assert.Equal(t, "c1", c.State().ConversationID())
	require.Len(t, c.State().Sidebar, 1)

	require.NoError(t, c.DeleteConversation(ctx, "c1"))
	assert.Empty(t, c.State().Sidebar)
	assert.Equal(t, "", c.State().ConversationID())
	assert.False(t, c.State().FeedbackEnabled)
	assert.Equal(t, []string{"other", "c1"}, ft.deletes)

	ft.deleteErr = &api.ClientError{Type: api.ErrTypeApplication, Message: "rejected", StatusCode: 404}
	assert.Error(t, c.DeleteConversation(ctx, "gone"))
	assert.Equal(t, DeleteFailedMessage, c.State().Status.Message())
}
