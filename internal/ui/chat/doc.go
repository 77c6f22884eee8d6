// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view component for the salestrainer TUI.

The chat package puts the session controller, the voice adapter and the
feedback modal behind a Bubble Tea model. The user practices a sales
conversation against an AI prospect and asks for a feedback report when done.

# Key Components

## Model (model.go)

The Model struct is the Bubble Tea model. It owns:
  - The session controller and its State (conversation, status, input)
  - The voice adapter and its event channel
  - Viewports for the transcript and the feedback report
  - The landing carousel shown before a conversation starts

## Update Loop (update.go)

Handles all Bubble Tea messages:
  - Keyboard and mouse input, including the modal's click and Escape rules
  - Request results (replies, feedback, conversation pages, deletes)
  - Recognizer events and the delayed voice auto-submit
  - Config hot reload

Network calls run in commands (commands.go). Their results come back as
messages and are applied in Update, so State is only touched on the UI
goroutine.

## View Rendering (view.go)

  - Header with the conversation title
  - Conversation sidebar when the terminal is wide enough
  - Transcript of message bubbles rendered from markup
  - Input box, greyed out while a reply is pending
  - Status bar with indicator, spinner and shortcuts
  - Toast stack over the bottom-right corner

# Usage

	client := api.NewClient(cfg.Server.URL)
	if err := client.Login(ctx, user, pass); err != nil {
		log.Fatal(err)
	}
	m := chat.New(chat.Options{Client: client, Config: cfg})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
