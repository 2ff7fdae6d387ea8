// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements fbo.Device on a gogpu/wgpu HAL device.
//
// WebGPU has no framebuffer objects, so the Device emulates them: a
// framebuffer is a record of its color texture and depth attachment, a
// renderbuffer is a Depth24Plus texture, and completeness is checked
// against those records. Hosts fetch the views of the bound framebuffer
// with RenderTarget and record their own render passes.
//
// Uploads go through Queue.WriteTexture. The surface blit shader is
// compiled with naga at construction time and exposed as BlitShader.
package wgpu
