// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feedback

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/salestrainer/salestrainer-tui/internal/util"
)

// FilePrefix starts every exported report name.
const FilePrefix = "sales-feedback-"

// ErrNothingToExport is returned when the modal holds no report.
var ErrNothingToExport = errors.New("no feedback to export")

// FileName returns the export name for a date: sales-feedback-YYYY-MM-DD.txt.
func FileName(now time.Time) string {
	return FilePrefix + now.Format("2006-01-02") + ".txt"
}

// Export writes the displayed report, markup stripped, into dir and returns
// the file path. An existing file of the same name is kept and the new one
// gets a " (n)" suffix. The write goes through a temp file that is linked
// into place or removed before Export returns.
func (m *Modal) Export(dir string, now time.Time) (string, error) {
	text := m.PlainText()
	if strings.TrimSpace(text) == "" {
		return "", ErrNothingToExport
	}
	return WriteReport(dir, now, text)
}

// WriteReport writes plain text as a dated report file in dir.
func WriteReport(dir string, now time.Time, text string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	path, err := createUnique(filepath.Join(dir, FileName(now)), []byte(text))
	if err != nil {
		return "", err
	}

	log.Printf("FEEDBACK_EXPORTED | path=%s bytes=%d", path, len(text))
	return path, nil
}

// maxCopies bounds the " (n)" suffixes tried for one date.
const maxCopies = 999

// createUnique writes data to path, or to the first free name with " (1)",
// " (2)", ... before the extension. Existing files are never replaced.
func createUnique(path string, data []byte) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	candidate := path
	for n := 1; ; n++ {
		err := util.AtomicCreateFile(candidate, data, 0644)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to write feedback report: %w", err)
		}
		if n > maxCopies {
			return "", fmt.Errorf("too many reports named %s", filepath.Base(path))
		}
		candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
	}
}
