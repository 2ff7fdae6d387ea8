// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fbo manages the offscreen framebuffer that an embedded engine
// renders into.
//
// A [Manager] owns one surface's framebuffer and depth renderbuffer, bound
// to a texture target. Resources are always torn down before new ones are
// created, so rapid resizes never leak GPU memory. Completeness failures are
// returned as [*IncompleteError] instead of producing a black frame.
//
// Lifecycle:
//
//	m := fbo.NewManager(device, surfaceState)
//	if err := m.SetupFramebuffer(tex); err != nil { ... } // retry next tick
//	if m.EnableForDraw() == nil {
//	    // engine draws
//	    m.DisableAfterDraw()
//	}
//	m.Teardown()
package fbo
