// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fbo

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete matches every *IncompleteError.
	ErrIncomplete = errors.New("fbo: framebuffer incomplete")

	// ErrLockFailure is returned when the new framebuffer could not be
	// committed to the shared state. The allocated objects are released.
	ErrLockFailure = errors.New("fbo: failed to lock framebuffer state")

	// ErrNoTarget is returned when no texture is bound as render target.
	ErrNoTarget = errors.New("fbo: no render target bound")

	// ErrNoFramebuffer is returned by EnableForDraw when nothing is allocated.
	ErrNoFramebuffer = errors.New("fbo: no framebuffer allocated")

	// ErrInvalidDimensions is returned when the surface has a zero side.
	ErrInvalidDimensions = errors.New("fbo: invalid dimensions")
)

// IncompleteError reports a framebuffer that failed its completeness check.
type IncompleteError struct {
	Status Status
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("fbo: framebuffer incomplete: %s", e.Status)
}

// Is makes errors.Is(err, ErrIncomplete) match.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}
