// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/websurface/internal/logging"
)

// settle is how long Watch waits after the last write before reloading.
// Editors often write a file in several steps.
const settle = 100 * time.Millisecond

// Watch reloads the file at path whenever it changes and calls onChange
// with the new configuration. Files that fail to load or validate are
// logged and skipped. Watch blocks until ctx is done.
//
// The parent directory is watched, so editors that replace the file by
// rename are handled.
func Watch(ctx context.Context, path string, onChange func(File)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}
	logging.L().Debug("config: watching", "path", abs)

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(settle)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				timer.Reset(settle)
			}
			logging.L().Warn("config: watch error", "path", abs, "err", err)
		case <-timer.C:
			f, err := Load(abs)
			if err != nil {
				logging.L().Warn("config: reload failed, keeping previous", "path", abs, "err", err)
				continue
			}
			logging.L().Info("config: reloaded", "path", abs)
			onChange(f)
		}
	}
}
