// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for salestrainer.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, validation and hot reload.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Where the Sales Training server lives and how to pace requests
//   - VoiceConfig: Speech input backend selection
//   - FeedbackConfig: Feedback threshold and export directory
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SALESTRAINER_*)
//   - .env in the working directory, then ~/.salestrainer/.env
//   - ~/.salestrainer/config.toml
//   - ~/.salestrainer/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: cfg.Server.BaseURL})
package config
