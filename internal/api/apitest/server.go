// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-memory Sales Training server for tests.
//
// It speaks the same routes, envelopes and session rules as the real
// server: a session cookie, a per-session anti-forgery token rendered into
// /auth/login, login-required chat routes that bounce to the login page,
// and the four-message feedback precondition.
package apitest

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const sessionCookie = "session"

// Responder produces the assistant reply for a user message.
type Responder func(conversationID, text string) (string, error)

// Recorded is one request seen by the server.
type Recorded struct {
	Method string
	Path   string
	CSRF   string
	Body   string
}

// Failure is an injected response for the next matching request.
type Failure struct {
	Status int
	Body   string
}

// Server is a fake Sales Training server.
type Server struct {
	*httptest.Server

	// Responder answers chat messages; defaults to a canned prospect reply.
	Responder Responder

	// FeedbackText is returned by the feedback route.
	FeedbackText string

	// Gate, when set, blocks message replies until it is closed or sent to.
	Gate chan struct{}

	mu            sync.Mutex
	users         map[string]user
	sessions      map[string]*session
	conversations map[int]*conversation
	nextConvID    int
	requests      []Recorded
	failures      map[string]Failure
}

type user struct {
	name     string
	password string
}

type session struct {
	csrf  string
	email string
}

type conversation struct {
	id       int
	owner    string
	title    string
	messages []chatMessage
}

type chatMessage struct {
	Role      string
	Content   string
	Timestamp string
}

func serverTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000")
}

// New starts a fake server. Close it when done.
func New() *Server {
	s := &Server{
		Responder:     func(_, text string) (string, error) { return "Tell me more about " + text, nil },
		FeedbackText:  "### Strengths\n- Good rapport\n\nKeep going.",
		users:         make(map[string]user),
		sessions:      make(map[string]*session),
		conversations: make(map[int]*conversation),
		nextConvID:    1,
		failures:      make(map[string]Failure),
	}

	r := chi.NewRouter()
	r.Use(s.record)

	r.Get("/auth/login", s.loginPage)
	r.Post("/auth/login", s.requireCSRF(s.login))
	r.Post("/auth/register", s.requireCSRF(s.register))

	r.Route("/chat", func(r chi.Router) {
		r.Use(s.requireLogin)
		r.Get("/", s.chatPage)
		r.Get("/dashboard", s.chatPage)
		r.Post("/{id}/message", s.sendMessage)
		r.Get("/{id}/feedback", s.feedback)
		r.Delete("/{id}", s.deleteConversation)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// AddUser registers an account directly.
func (s *Server) AddUser(name, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = user{name: name, password: password}
}

// AddConversation creates a conversation owned by email with n prior
// messages, alternating user and assistant.
func (s *Server) AddConversation(email, title string, messages int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.newConversation(email)
	c.title = title
	for i := 0; i < messages; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		c.messages = append(c.messages, chatMessage{
			Role:      role,
			Content:   fmt.Sprintf("Earlier message %d", i+1),
			Timestamp: serverTimestamp(),
		})
	}
	return strconv.Itoa(c.id)
}

// FailNext makes the next request to path (e.g. "POST /chat/1/message")
// answer with f instead of the normal handler.
func (s *Server) FailNext(route string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = f
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests returns how many requests matched method and path.
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			CSRF:   r.Header.Get("X-CSRF-Token"),
			Body:   string(body),
		})
		f, failing := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if failing {
			w.WriteHeader(f.Status)
			io.WriteString(w, f.Body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok {
			return sess
		}
	}

	id := uuid.NewString()
	sess := &session{csrf: strings.ReplaceAll(uuid.NewString(), "-", "")}
	s.sessions[id] = sess
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true})
	return sess
}

func (s *Server) requireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		if tok := r.Header.Get("X-CSRF-Token"); tok == "" || tok != sess.csrf {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, "<h1>403 Forbidden</h1>")
			return
		}
		next(w, r)
	}
}

func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.session(w, r)
		s.mu.Lock()
		loggedIn := sess.email != ""
		s.mu.Unlock()
		if !loggedIn {
			http.Redirect(w, r, "/auth/login?next="+r.URL.Path, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// AUTH ROUTES
// =============================================================================

var loginTmpl = template.Must(template.New("login").Parse(
	`<!DOCTYPE html><html><head><meta name="csrf-token" content="{{.}}"><title>Login</title></head>` +
		`<body><form><input type="hidden" name="csrf_token" value="{{.}}"></form></body></html>`))

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	w.Header().Set("Content-Type", "text/html")
	loginTmpl.Execute(w, sess.csrf)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please provide both email and password"})
		return
	}

	sess := s.session(w, r)
	s.mu.Lock()
	u, ok := s.users[req.Email]
	if ok && u.password == req.Password {
		sess.email = req.Email
	}
	s.mu.Unlock()

	if !ok || u.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password. Please try again."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect": "/chat/dashboard"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please provide all required fields"})
		return
	}

	sess := s.session(w, r)
	s.mu.Lock()
	_, exists := s.users[req.Email]
	if !exists {
		s.users[req.Email] = user{name: req.Name, password: req.Password}
		sess.email = req.Email
	}
	s.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email address already in use"})
		return
	}
	// The real server sends a redirect; leave it out to exercise the default.
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// =============================================================================
// CHAT ROUTES
// =============================================================================

var chatTmpl = template.Must(template.New("chat").Parse(
	`<!DOCTYPE html><html><head><meta name="csrf-token" content="{{.CSRF}}"></head><body>` +
		`<ul class="sidebar">{{range .Sidebar}}<li class="conversation-item" data-id="{{.ID}}">` +
		`<span class="conversation-title">{{.Title}}</span><small>today</small></li>{{end}}</ul>` +
		`<main id="chat" data-conversation-id="{{.Active}}">{{range .Messages}}` +
		`<div class="message {{.Role}}-message" data-role="{{.Role}}" data-timestamp="{{.Timestamp}}">` +
		`<div class="message-content">{{.Content}}</div></div>{{end}}</main></body></html>`))

type sidebarRow struct {
	ID    int
	Title string
}

func (s *Server) newConversation(owner string) *conversation {
	c := &conversation{id: s.nextConvID, owner: owner, title: "New Conversation"}
	s.nextConvID++
	s.conversations[c.id] = c
	return c
}

func (s *Server) chatPage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)

	s.mu.Lock()
	var active *conversation
	if id, err := strconv.Atoi(r.URL.Query().Get("conversation")); err == nil {
		if c, ok := s.conversations[id]; ok && c.owner == sess.email {
			active = c
		}
	}
	if active == nil {
		active = s.newConversation(sess.email)
	}
	var rows []sidebarRow
	for id := 1; id < s.nextConvID; id++ {
		if c, ok := s.conversations[id]; ok && c.owner == sess.email {
			rows = append(rows, sidebarRow{ID: c.id, Title: c.title})
		}
	}
	csrf := sess.csrf
	history := append([]chatMessage(nil), active.messages...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html")
	chatTmpl.Execute(w, map[string]interface{}{"CSRF": csrf, "Sidebar": rows, "Active": active.id, "Messages": history})
}

func (s *Server) conversationFor(w http.ResponseWriter, r *http.Request) *conversation {
	sess := s.session(w, r)
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok || c.owner != sess.email {
		http.NotFound(w, r)
		return nil
	}
	return c
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	c := s.conversationFor(w, r)
	if c == nil {
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	text := strings.TrimSpace(req.Message)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Message content is required"})
		return
	}

	if s.Gate != nil {
		<-s.Gate
	}

	reply, err := s.Responder(strconv.Itoa(c.id), text)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "error": err.Error()})
		return
	}

	now := serverTimestamp()
	s.mu.Lock()
	c.messages = append(c.messages,
		chatMessage{Role: "user", Content: text, Timestamp: now},
		chatMessage{Role: "assistant", Content: reply, Timestamp: now})
	if c.title == "New Conversation" {
		words := strings.Fields(text)
		if len(words) > 2 {
			if len(words) > 5 {
				words = words[:5]
			}
			c.title = strings.Join(words, " ") + "..."
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"message": map[string]string{
			"role":      "assistant",
			"content":   reply,
			"timestamp": now,
		},
	})
}

func (s *Server) feedback(w http.ResponseWriter, r *http.Request) {
	c := s.conversationFor(w, r)
	if c == nil {
		return
	}

	s.mu.Lock()
	n := len(c.messages)
	text := s.FeedbackText
	s.mu.Unlock()

	if n < 4 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Not enough conversation history to generate feedback"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "feedback": text})
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	c := s.conversationFor(w, r)
	if c == nil {
		return
	}
	s.mu.Lock()
	delete(s.conversations, c.id)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
	}
}
