// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package opengl implements fbo.Device on OpenGL 3.3 core.
//
// A Device must be created and used on the goroutine that owns the current
// GL context; callers lock it to its OS thread with runtime.LockOSThread.
// Besides framebuffer management, the Device allocates surface textures
// (websurface.TextureLoader), resolves them for the pass package and draws
// them into the default framebuffer (gpucontext.TextureDrawer).
package opengl
