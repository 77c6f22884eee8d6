// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/salestrainer/salestrainer-tui/internal/model"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 4 << 20

// CSRFHeader carries the anti-forgery token on state-changing requests.
const CSRFHeader = "X-CSRF-Token"

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL is the server root (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout bounds each request. Zero means no timeout; requests then end
	// only when the transport gives up or the context is cancelled.
	Timeout time.Duration

	// CSRFPage is fetched to discover the anti-forgery token (default: /auth/login)
	CSRFPage string

	// RequestsPerMinute paces chat requests. Zero disables pacing.
	RequestsPerMinute int

	// AuthPerMinute paces login and register calls (default: 1 per minute, burst 5),
	// which keeps the client under the server's auth rate limits.
	AuthPerMinute int

	// HTTPClient overrides the underlying client. Its Jar is replaced when nil.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:5000",
		Timeout:           0,
		CSRFPage:          "/auth/login",
		RequestsPerMinute: 60,
		AuthPerMinute:     1,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Sales Training server. It keeps the session cookie
// and the anti-forgery token between calls.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := api.NewClient()
//	if _, err := client.Login(ctx, api.LoginRequest{Email: e, Password: p}); err != nil {
//	    return err
//	}
//	reply, err := client.SendMessage(ctx, "42", "Hi, is this a good time?")
type Client struct {
	config      *ClientConfig
	httpClient  *http.Client
	limiter     *rate.Limiter
	authLimiter *rate.Limiter

	mu        sync.RWMutex
	csrfToken string
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.CSRFPage == "" {
		config.CSRFPage = "/auth/login"
	}
	if config.AuthPerMinute == 0 {
		config.AuthPerMinute = 1
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	if httpClient.Jar == nil {
		// cookiejar.New only fails on a bad PublicSuffixList, never here.
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		httpClient.Jar = jar
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), config.RequestsPerMinute)
	}

	return &Client{
		config:      config,
		httpClient:  httpClient,
		limiter:     limiter,
		authLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.AuthPerMinute)), 5),
	}
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// SetCSRFToken installs a known anti-forgery token.
func (c *Client) SetCSRFToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.csrfToken = token
}

// CSRFToken returns the current anti-forgery token, possibly empty.
func (c *Client) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

// =============================================================================
// PAGES AND TOKENS
// =============================================================================

// FetchCSRFToken loads the configured CSRF page and stores its token.
func (c *Client) FetchCSRFToken(ctx context.Context) (string, error) {
	page, err := c.fetchPage(ctx, c.config.CSRFPage, false)
	if err != nil {
		return "", err
	}
	if page.CSRFToken == "" {
		return "", ErrNoCSRFToken
	}
	return page.CSRFToken, nil
}

func (c *Client) ensureCSRF(ctx context.Context) error {
	if c.CSRFToken() != "" {
		return nil
	}
	_, err := c.FetchCSRFToken(ctx)
	return err
}

// StartConversation opens the chat page, which makes the server create a
// new conversation, and returns what the page shows.
func (c *Client) StartConversation(ctx context.Context) (*ChatPage, error) {
	page, err := c.fetchPage(ctx, "/chat/", true)
	if err != nil {
		return nil, err
	}
	if page.ConversationID == "" {
		return nil, &ClientError{Type: ErrTypeDecode, Message: "chat page did not name a conversation"}
	}
	return page, nil
}

// OpenConversation opens the chat page for an existing conversation.
func (c *Client) OpenConversation(ctx context.Context, id string) (*ChatPage, error) {
	page, err := c.fetchPage(ctx, "/chat/?conversation="+url.QueryEscape(id), true)
	if err != nil {
		return nil, err
	}
	if page.ConversationID == "" {
		page.ConversationID = id
	}
	return page, nil
}

// fetchPage GETs an HTML page and parses it. When requireAuth is set, being
// bounced to the login page is reported as ErrNotAuthenticated.
func (c *Client) fetchPage(ctx context.Context, path string, requireAuth bool) (*ChatPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeTransport, Message: "request cancelled", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if requireAuth && resp.Request != nil && strings.HasPrefix(resp.Request.URL.Path, "/auth/login") {
		return nil, ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ClientError{
			Type:       ErrTypeApplication,
			Message:    "page request failed: " + resp.Status,
			StatusCode: resp.StatusCode,
		}
	}

	page, err := ParseChatPage(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeDecode, Message: "failed to parse page", Cause: err}
	}
	if page.CSRFToken != "" {
		c.SetCSRFToken(page.CSRFToken)
	}
	return page, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// SendMessage posts one user message and returns the assistant's reply
// exactly as the server sent it. The reply gets a fresh client ID.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (*model.Message, error) {
	var resp MessageResponse
	path := "/chat/" + url.PathEscape(conversationID) + "/message"
	if err := c.doJSON(ctx, c.limiter, http.MethodPost, path, SendMessageRequest{Message: text}, &resp, true); err != nil {
		return nil, err
	}
	if resp.Message == nil {
		return nil, &ClientError{Type: ErrTypeDecode, Message: "response has no message"}
	}

	resp.Message.ID = uuid.NewString()
	if resp.Message.Role == "" {
		resp.Message.Role = model.RoleAssistant
	}
	return resp.Message, nil
}

// GetFeedback fetches a fresh feedback report for a conversation.
func (c *Client) GetFeedback(ctx context.Context, conversationID string) (string, error) {
	var resp FeedbackResponse
	path := "/chat/" + url.PathEscape(conversationID) + "/feedback"
	if err := c.doJSON(ctx, c.limiter, http.MethodGet, path, nil, &resp, true); err != nil {
		return "", err
	}
	return resp.Feedback, nil
}

// DeleteConversation removes a conversation on the server.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	var resp Envelope
	path := "/chat/" + url.PathEscape(conversationID)
	return c.doJSON(ctx, c.limiter, http.MethodDelete, path, nil, &resp, true)
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Register creates an account and returns where the server wants the
// user to go next.
func (c *Client) Register(ctx context.Context, r RegisterRequest) (string, error) {
	return c.auth(ctx, "/auth/register", r)
}

// Login starts a session and returns the redirect location.
func (c *Client) Login(ctx context.Context, r LoginRequest) (string, error) {
	return c.auth(ctx, "/auth/login", r)
}

func (c *Client) auth(ctx context.Context, path string, body interface{}) (string, error) {
	var resp AuthResponse
	// Success here is the HTTP status alone; the body may omit "status".
	if err := c.doJSON(ctx, c.authLimiter, http.MethodPost, path, body, &resp, false); err != nil {
		return "", err
	}
	if resp.Redirect == "" {
		return DefaultRedirect, nil
	}
	return resp.Redirect, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON sends body as JSON and decodes the reply into out. With
// needStatus, a 2xx reply must also carry status "success". Non-2xx
// replies are decoded the same way so the server's error text survives.
func (c *Client) doJSON(ctx context.Context, limiter *rate.Limiter, method, path string, body interface{}, out envelopeCarrier, needStatus bool) error {
	if method != http.MethodGet {
		if err := c.ensureCSRF(ctx); err != nil {
			// A missing token is left for the server to reject.
			log.Printf("CSRF_LOOKUP_FAILED | path=%s error=%v", path, err)
		}
	}

	if err := limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeTransport, Message: "request cancelled", Cause: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeDecode, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.CSRFToken(); token != "" && method != http.MethodGet {
		req.Header.Set(CSRFHeader, token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("API_REQUEST_FAILED | method=%s path=%s error=%v", method, path, err)
		return transportError(err)
	}
	defer resp.Body.Close()
	log.Printf("API_REQUEST | method=%s path=%s status=%d duration=%s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if path != "/auth/login" && resp.Request != nil && strings.HasPrefix(resp.Request.URL.Path, "/auth/login") {
		return ErrNotAuthenticated
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &ClientError{Type: ErrTypeTransport, Message: "failed to read response", StatusCode: resp.StatusCode, Cause: err}
	}

	ok2xx := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if err := json.Unmarshal(data, out); err != nil {
		if !ok2xx {
			return &ClientError{Type: ErrTypeApplication, Message: "request failed: " + resp.Status, StatusCode: resp.StatusCode}
		}
		return &ClientError{Type: ErrTypeDecode, Message: "failed to decode response", StatusCode: resp.StatusCode, Cause: err}
	}

	env := out.envelope()
	if !ok2xx || (needStatus && !env.OK()) {
		return &ClientError{
			Type:       ErrTypeApplication,
			Message:    "request failed: " + resp.Status,
			ServerText: env.Error,
			StatusCode: resp.StatusCode,
		}
	}
	return nil
}

func transportError(err error) error {
	msg := "request failed"
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	} else if errors.Is(err, context.Canceled) {
		msg = "request cancelled"
	}
	return &ClientError{Type: ErrTypeTransport, Message: msg, Cause: err}
}
