// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the salestrainer TUI.

Components are plain structs with a View method, or render functions, built
on Lip Gloss and themed by the styles package. They hold no session state of
their own; the chat model copies what they need from the session controller
before each render.

# Display Components

StatusBar (statusbar.go) - Session status (ready, loading, error) with shortcut hints.
MessageBubble (message.go) - One transcript entry with role, localized time and markup.
RenderSidebar (sidebar.go) - Conversation list with width-aware title truncation.
ModalView (modal.go) - Feedback modal layout and click hit-testing.

# Feedback

ToastManager (toast.go) - Auto-dismissing notifications in the bottom-right corner.
RenderStrengthMeter (strength.go) - Password strength bar and server policy hints.

# Screens

Landing (landing.go) - Start screen with a rotating testimonial carousel.

# Usage

	bar := components.NewStatusBar(theme)
	bar.SetWidth(width)
	bar.SetIndicator(state.Status)
	view := bar.View()
*/
package components
