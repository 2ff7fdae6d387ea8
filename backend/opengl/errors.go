// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

var (
	// ErrOutOfMemory is reported when the driver cannot allocate storage.
	ErrOutOfMemory = errors.New("opengl: out of memory")

	// ErrUnknownTexture is returned for textures this device did not create.
	ErrUnknownTexture = errors.New("opengl: unknown texture")
)

// Error is a raw GL error code.
type Error uint32

func (e Error) Error() string {
	switch uint32(e) {
	case gl.INVALID_ENUM:
		return "opengl: GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "opengl: GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "opengl: GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "opengl: GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "opengl: GL_OUT_OF_MEMORY"
	default:
		return fmt.Sprintf("opengl: GL error 0x%04X", uint32(e))
	}
}

// Is matches ErrOutOfMemory for GL_OUT_OF_MEMORY.
func (e Error) Is(target error) bool {
	return target == ErrOutOfMemory && uint32(e) == gl.OUT_OF_MEMORY
}

// glErr converts a GL error code into an error, nil for GL_NO_ERROR.
func glErr(code uint32, op string) error {
	if code == gl.NO_ERROR {
		return nil
	}
	return fmt.Errorf("%s: %w", op, Error(code))
}

// drainErrors reads and discards queued GL errors so a later check only
// sees errors from the call it guards.
func drainErrors() {
	for range 16 {
		if gl.GetError() == gl.NO_ERROR {
			return
		}
	}
}
