// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salestrainer/salestrainer-tui/internal/api"
	"github.com/salestrainer/salestrainer-tui/internal/api/apitest"
	"github.com/salestrainer/salestrainer-tui/internal/model"
)

func newClient(srv *apitest.Server) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           srv.URL,
		RequestsPerMinute: 0,
		AuthPerMinute:     600,
	})
}

func loggedIn(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.AddUser("Dana", "dana@example.com", "Secret1!x")

	c := newClient(srv)
	_, err := c.Login(context.Background(), api.LoginRequest{Email: "dana@example.com", Password: "Secret1!x"})
	require.NoError(t, err)
	return srv, c
}

func TestLogin_FetchesCSRFAndFollowsSession(t *testing.T) {
	srv, c := loggedIn(t)

	assert.NotEmpty(t, c.CSRFToken())

	var loginPost *apitest.Recorded
	for _, r := range srv.Requests() {
		if r.Method == http.MethodPost && r.Path == "/auth/login" {
			r := r
			loginPost = &r
		}
	}
	require.NotNil(t, loginPost)
	assert.Equal(t, c.CSRFToken(), loginPost.CSRF)
	assert.Equal(t, 1, srv.CountRequests(http.MethodGet, "/auth/login"))
}

func TestLogin_BadPassword(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.AddUser("Dana", "dana@example.com", "Secret1!x")

	c := newClient(srv)
	_, err := c.Login(context.Background(), api.LoginRequest{Email: "dana@example.com", Password: "nope"})
	require.Error(t, err)

	assert.Equal(t, api.ErrTypeApplication, api.TypeOf(err))
	assert.Equal(t, "Invalid email or password. Please try again.", api.UserMessage(err, "fallback"))
}

func TestRegister_DefaultRedirect(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	c := newClient(srv)
	redirect, err := c.Register(context.Background(), api.RegisterRequest{
		Name: "Sam", Email: "sam@example.com", Password: "Abcdefgh1!",
	})
	require.NoError(t, err)
	assert.Equal(t, api.DefaultRedirect, redirect)

	_, err = c.Register(context.Background(), api.RegisterRequest{
		Name: "Sam", Email: "sam@example.com", Password: "Abcdefgh1!",
	})
	require.Error(t, err)
	assert.Equal(t, "Email address already in use", api.UserMessage(err, "fallback"))
}

func TestRegister_RejectedWithoutToken(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()

	c := newClient(srv)
	c.SetCSRFToken("forged")

	_, err := c.Register(context.Background(), api.RegisterRequest{Name: "a", Email: "b", Password: "c"})
	require.Error(t, err)

	var ce *api.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, api.ErrTypeApplication, ce.Type)
	assert.Equal(t, http.StatusForbidden, ce.StatusCode)
	assert.Equal(t, "fallback", api.UserMessage(err, "fallback"))
}

func TestStartConversationAndSendMessage(t *testing.T) {
	srv, c := loggedIn(t)
	ctx := context.Background()

	page, err := c.StartConversation(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, page.ConversationID)
	assert.Equal(t, model.DefaultTitle, page.Title(page.ConversationID))

	reply, err := c.SendMessage(ctx, page.ConversationID, "budget is tight this quarter")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "Tell me more about budget is tight this quarter", reply.Content)
	assert.NotEmpty(t, reply.ID)
	assert.NotEmpty(t, reply.Timestamp)

	path := "/chat/" + page.ConversationID + "/message"
	var sent *apitest.Recorded
	for _, r := range srv.Requests() {
		if r.Path == path {
			r := r
			sent = &r
		}
	}
	require.NotNil(t, sent)
	assert.Equal(t, c.CSRFToken(), sent.CSRF)
	assert.JSONEq(t, `{"message":"budget is tight this quarter"}`, sent.Body)
}

func TestSendMessage_ApplicationError(t *testing.T) {
	srv, c := loggedIn(t)
	ctx := context.Background()
	id := srv.AddConversation("dana@example.com", "Cold call", 0)

	srv.FailNext("POST /chat/"+id+"/message", apitest.Failure{
		Status: http.StatusOK,
		Body:   `{"status":"error","error":"The prospect hung up."}`,
	})
	_, err := c.SendMessage(ctx, id, "hello")
	require.Error(t, err)
	assert.Equal(t, api.ErrTypeApplication, api.TypeOf(err))
	assert.Equal(t, "The prospect hung up.", api.UserMessage(err, "fallback"))

	srv.FailNext("POST /chat/"+id+"/message", apitest.Failure{Status: http.StatusBadGateway, Body: "<html>bad gateway</html>"})
	_, err = c.SendMessage(ctx, id, "hello")
	require.Error(t, err)
	assert.Equal(t, api.ErrTypeApplication, api.TypeOf(err))
	assert.Equal(t, "fallback", api.UserMessage(err, "fallback"))

	srv.FailNext("POST /chat/"+id+"/message", apitest.Failure{Status: http.StatusOK, Body: "not json"})
	_, err = c.SendMessage(ctx, id, "hello")
	require.Error(t, err)
	assert.Equal(t, api.ErrTypeDecode, api.TypeOf(err))
}

func TestSendMessage_TransportError(t *testing.T) {
	srv := apitest.New()
	c := newClient(srv)
	c.SetCSRFToken("tok")
	srv.Close()

	_, err := c.SendMessage(context.Background(), "1", "hello")
	require.Error(t, err)
	assert.Equal(t, api.ErrTypeTransport, api.TypeOf(err))
	assert.Equal(t, api.NetworkErrorMessage, api.UserMessage(err, "fallback"))
}

func TestChatRoutesRequireLogin(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	c := newClient(srv)

	_, err := c.StartConversation(context.Background())
	assert.True(t, errors.Is(err, api.ErrNotAuthenticated), "got %v", err)

	_, err = c.GetFeedback(context.Background(), "1")
	assert.True(t, errors.Is(err, api.ErrNotAuthenticated), "got %v", err)
}

func TestGetFeedback(t *testing.T) {
	srv, c := loggedIn(t)
	ctx := context.Background()

	short := srv.AddConversation("dana@example.com", "Short", 2)
	_, err := c.GetFeedback(ctx, short)
	require.Error(t, err)
	assert.Equal(t, "Not enough conversation history to generate feedback", api.UserMessage(err, "fallback"))

	long := srv.AddConversation("dana@example.com", "Long", 6)
	text, err := c.GetFeedback(ctx, long)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "### Strengths"))
}

func TestDeleteConversation(t *testing.T) {
	srv, c := loggedIn(t)
	ctx := context.Background()

	id := srv.AddConversation("dana@example.com", "Old", 0)
	require.NoError(t, c.DeleteConversation(ctx, id))

	err := c.DeleteConversation(ctx, id)
	require.Error(t, err)
	var ce *api.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusNotFound, ce.StatusCode)
}

func TestOpenConversation_Sidebar(t *testing.T) {
	srv, c := loggedIn(t)
	a := srv.AddConversation("dana@example.com", "Discovery call", 4)
	srv.AddConversation("someone@else.com", "Not mine", 0)

	page, err := c.OpenConversation(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, a, page.ConversationID)
	require.Len(t, page.Conversations, 1)
	assert.Equal(t, "Discovery call", page.Conversations[0].Title)

	require.Len(t, page.Messages, 4)
	assert.Equal(t, model.RoleUser, page.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, page.Messages[1].Role)
	assert.Equal(t, "Earlier message 2", page.Messages[1].Content)
	assert.NotEmpty(t, page.Messages[1].Timestamp)
}
