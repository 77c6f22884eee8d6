// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce collapses the burst of events editors emit on save.
const DefaultWatchDebounce = 200 * time.Millisecond

// Watch reloads the config file at path whenever it changes, makes a valid
// result the global configuration, and passes the result to onChange. The parent directory is watched because editors often
// save by rename, which drops a watch on the file itself.
//
// Watch returns once the watcher is running; it stops when ctx is cancelled.
// onChange is called from the watcher goroutine.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	return WatchWithDebounce(ctx, path, DefaultWatchDebounce, onChange)
}

// WatchWithDebounce is Watch with an explicit debounce interval.
func WatchWithDebounce(ctx context.Context, path string, debounce time.Duration, onChange func(*Config, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(debounce)
				} else {
					timer.Stop()
					timer.Reset(debounce)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				cfg, err := ReloadGlobal(abs)
				if err != nil {
					log.Printf("CONFIG_RELOAD_FAILED | path=%s error=%v", abs, err)
				} else {
					log.Printf("CONFIG_RELOADED | path=%s", abs)
				}
				onChange(cfg, err)

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("CONFIG_WATCH_ERROR | error=%v", err)
			}
		}
	}()

	return nil
}
