// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fbo

import (
	"fmt"

	"github.com/gogpu/websurface/internal/logging"
	"github.com/gogpu/websurface/state"
)

// failureMarker is inserted into the command stream when setup fails so the
// failure is visible in GPU debuggers.
const failureMarker = "websurface: framebuffer creation failed"

// Manager allocates and releases the framebuffer of one surface.
//
// State shared with engine callbacks lives in the [state.Surface]; the
// manager itself holds no mutable fields and never keeps a state cell
// locked across a Device call.
type Manager struct {
	dev   Device
	state *state.Surface
}

// NewManager creates a manager for the surface state st.
func NewManager(dev Device, st *state.Surface) *Manager {
	return &Manager{dev: dev, state: st}
}

// State returns the shared surface state.
func (m *Manager) State() *state.Surface { return m.state }

// SetupFramebuffer binds tex as the render target and builds a framebuffer
// with a depth attachment sized to the current dimensions.
//
// Existing resources are deleted first. On success the previous target
// texture, if different from tex, is deleted. On failure the new objects
// are deleted, the previous target binding is restored and the error is
// an *IncompleteError, ErrLockFailure or ErrInvalidDimensions.
// The default framebuffer is bound when SetupFramebuffer returns.
func (m *Manager) SetupFramebuffer(tex TextureID) error {
	if tex == 0 {
		return ErrNoTarget
	}
	w, h := m.state.Dimensions()
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	if old, ok := m.state.TakeBuffers(); ok {
		m.deleteBuffers(old)
	}

	prev := m.state.ReplaceTarget(tex)
	m.dev.BindTexture2D(tex)

	fb := m.dev.GenFramebuffer()
	m.dev.BindFramebuffer(TargetFramebuffer, fb)
	m.dev.FramebufferTexture2D(TargetFramebuffer, AttachmentColor0, tex)

	rb := m.dev.GenRenderbuffer()
	m.dev.BindRenderbuffer(rb)
	bufs := state.Buffers{Framebuffer: fb, DepthBuffer: rb}

	if err := m.dev.RenderbufferStorage(int(w), int(h)); err != nil {
		m.abort(bufs, prev)
		return fmt.Errorf("fbo: depth storage %dx%d: %w", w, h, err)
	}
	m.dev.FramebufferRenderbuffer(TargetFramebuffer, AttachmentDepth, rb)

	status := m.dev.CheckFramebufferStatus(TargetFramebuffer)
	if status != StatusComplete {
		m.abort(bufs, prev)
		logging.L().Warn("fbo: framebuffer incomplete",
			"status", status.String(), "texture", tex, "width", w, "height", h)
		return &IncompleteError{Status: status}
	}

	m.restoreDefault()

	if err := m.state.CommitBuffers(bufs); err != nil {
		m.deleteBuffers(bufs)
		m.state.RestoreTarget(prev)
		logging.L().Warn("fbo: commit failed", "err", err)
		return fmt.Errorf("%w: %w", ErrLockFailure, err)
	}

	if prev.Valid && prev.ID != tex {
		m.dev.DeleteTexture(prev.ID)
	}

	logging.L().Debug("fbo: framebuffer ready",
		"framebuffer", fb, "depth", rb, "texture", tex, "width", w, "height", h)
	return nil
}

// abort releases partially built objects and restores the previous state.
func (m *Manager) abort(bufs state.Buffers, prev state.Target) {
	m.dev.InsertEventMarker(failureMarker)
	m.restoreDefault()
	m.deleteBuffers(bufs)
	m.state.RestoreTarget(prev)
}

func (m *Manager) restoreDefault() {
	m.dev.BindRenderbuffer(0)
	m.dev.BindFramebuffer(TargetFramebuffer, 0)
}

func (m *Manager) deleteBuffers(b state.Buffers) {
	if b.Framebuffer != 0 {
		m.dev.DeleteFramebuffer(b.Framebuffer)
	}
	if b.DepthBuffer != 0 {
		m.dev.DeleteRenderbuffer(b.DepthBuffer)
	}
}

// EnableForDraw binds the surface framebuffer as the draw target.
// It returns ErrNoFramebuffer when none is allocated; the caller must not
// draw in that case.
func (m *Manager) EnableForDraw() error {
	b, ok := m.state.Buffers()
	if !ok {
		return ErrNoFramebuffer
	}
	m.dev.BindFramebuffer(TargetFramebuffer, b.Framebuffer)
	m.dev.BindRenderbuffer(b.DepthBuffer)
	m.dev.DrawBuffers(AttachmentColor0)
	m.dev.PrepareDrawState()
	return nil
}

// DisableAfterDraw restores the default framebuffer. It is idempotent.
func (m *Manager) DisableAfterDraw() {
	m.restoreDefault()
}

// Upload replaces the target texture contents with RGBA8 pixels.
func (m *Manager) Upload(width, height int, pixels []byte) error {
	tex, ok := m.state.Target()
	if !ok {
		return ErrNoTarget
	}
	if want := width * height * 4; len(pixels) < want {
		return fmt.Errorf("fbo: upload %dx%d needs %d bytes, got %d", width, height, want, len(pixels))
	}
	return m.dev.TexSubImage2D(tex, width, height, pixels)
}

// Teardown deletes the framebuffer, depth buffer and target texture.
// It is safe to call more than once.
func (m *Manager) Teardown() {
	if b, ok := m.state.TakeBuffers(); ok {
		m.deleteBuffers(b)
	}
	if tex, ok := m.state.Target(); ok {
		m.state.RemoveTarget()
		m.dev.DeleteTexture(tex)
	}
}

// HasTarget reports whether a texture is bound as render target.
func (m *Manager) HasTarget() bool { return m.state.HasTarget() }

// HasFramebuffer reports whether framebuffer resources are allocated.
func (m *Manager) HasFramebuffer() bool {
	_, ok := m.state.Buffers()
	return ok
}
