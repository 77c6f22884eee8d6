// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile replaces path with data by way of a temporary file in the
// same directory, fsync, and rename. The temporary file never outlives the
// call: on success it has become path, on failure it is removed.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	absPath, tempPath, err := writeTemp(path, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// AtomicCreateFile is AtomicWriteFile for a file that must not exist yet.
// The complete file appears under path or nothing does. When path is taken
// the error matches os.ErrExist and the existing file is untouched.
func AtomicCreateFile(path string, data []byte, perm os.FileMode) error {
	absPath, tempPath, err := writeTemp(path, data, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tempPath)

	// Link fails on an existing name where rename would replace it.
	if err := os.Link(tempPath, absPath); err != nil {
		return err
	}
	return nil
}

// writeTemp writes a synced, closed temp file next to path.
func writeTemp(path string, data []byte, perm os.FileMode) (absPath, tempPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return "", "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath = f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return "", "", fmt.Errorf("failed to write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", "", fmt.Errorf("failed to sync data to disk: %w", err)
	}
	// Close before rename, Windows refuses to rename open files.
	if err := f.Close(); err != nil {
		return "", "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return "", "", fmt.Errorf("failed to set file permissions: %w", err)
	}

	success = true
	return absPath, tempPath, nil
}
