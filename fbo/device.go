// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fbo

import (
	"fmt"

	"github.com/gogpu/websurface/state"
)

// Object identifiers, shared with the state package.
type (
	TextureID      = state.TextureID
	FramebufferID  = state.FramebufferID
	RenderbufferID = state.RenderbufferID
)

// Target selects a framebuffer binding point.
type Target uint32

// Framebuffer binding points. Values match OpenGL.
const (
	TargetFramebuffer     Target = 0x8D40
	TargetReadFramebuffer Target = 0x8CA8
	TargetDrawFramebuffer Target = 0x8CA9
)

// Attachment selects a framebuffer attachment point.
type Attachment uint32

// Attachment points. Values match OpenGL.
const (
	AttachmentColor0 Attachment = 0x8CE0
	AttachmentDepth  Attachment = 0x8D00
)

// Status is a framebuffer completeness status.
type Status uint32

// Completeness statuses. Values match OpenGL.
const (
	StatusComplete                    Status = 0x8CD5
	StatusIncompleteAttachment        Status = 0x8CD6
	StatusIncompleteMissingAttachment Status = 0x8CD7
	StatusIncompleteDrawBuffer        Status = 0x8CDB
	StatusIncompleteReadBuffer        Status = 0x8CDC
	StatusUnsupported                 Status = 0x8CDD
	StatusIncompleteMultisample       Status = 0x8D56
	StatusUndefined                   Status = 0x8219
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "COMPLETE"
	case StatusIncompleteAttachment:
		return "INCOMPLETE_ATTACHMENT"
	case StatusIncompleteMissingAttachment:
		return "INCOMPLETE_MISSING_ATTACHMENT"
	case StatusIncompleteDrawBuffer:
		return "INCOMPLETE_DRAW_BUFFER"
	case StatusIncompleteReadBuffer:
		return "INCOMPLETE_READ_BUFFER"
	case StatusUnsupported:
		return "UNSUPPORTED"
	case StatusIncompleteMultisample:
		return "INCOMPLETE_MULTISAMPLE"
	case StatusUndefined:
		return "UNDEFINED"
	default:
		return fmt.Sprintf("Status(0x%04X)", uint32(s))
	}
}

// Device is the set of GPU calls the framebuffer manager needs.
//
// The shape follows OpenGL framebuffer objects. Implementations backed by
// other APIs emulate the binding model; see backend/hal.
//
// Methods are called from the driver goroutine and from engine composite
// callbacks, never concurrently for the same surface.
type Device interface {
	GenFramebuffer() FramebufferID
	DeleteFramebuffer(id FramebufferID)
	BindFramebuffer(target Target, id FramebufferID)
	FramebufferTexture2D(target Target, attachment Attachment, tex TextureID)
	CheckFramebufferStatus(target Target) Status

	GenRenderbuffer() RenderbufferID
	DeleteRenderbuffer(id RenderbufferID)
	BindRenderbuffer(id RenderbufferID)
	// RenderbufferStorage allocates depth storage for the bound renderbuffer.
	RenderbufferStorage(width, height int) error
	FramebufferRenderbuffer(target Target, attachment Attachment, rb RenderbufferID)

	BindTexture2D(tex TextureID)
	DeleteTexture(tex TextureID)
	// TexSubImage2D replaces the RGBA8 contents of tex.
	TexSubImage2D(tex TextureID, width, height int, pixels []byte) error

	DrawBuffers(attachments ...Attachment)
	// PrepareDrawState disables face culling and sets the depth test to LESS.
	PrepareDrawState()
	InsertEventMarker(marker string)
}
