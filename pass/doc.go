// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pass is the render-pass contract for browser surfaces.
//
// The pass draws a unit quad textured with a material's albedo, the
// surface texture produced by the driver, alpha-blended into the current
// render target. It is consumed by hosts; the surface core only supplies
// the texture handle.
//
// Three renderings are offered:
//   - [Pass.Draw] through a gpucontext.TextureDrawer
//   - [BlitShaderWGSL] / [CompileBlitShader] for HAL pipelines
//   - [Blit] on the CPU for software hosts and tests
package pass
