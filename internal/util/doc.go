// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across salestrainer.
//
//   - AtomicWriteFile: crash-safe file writing through a temp file + rename
//   - AtomicCreateFile: the same, refusing to replace an existing file
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width aware truncation for terminal columns
package util
