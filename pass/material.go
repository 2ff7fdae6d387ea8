// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pass

import "github.com/gogpu/websurface/fbo"

// BlendMode selects how the quad is combined with the target.
type BlendMode uint8

const (
	// BlendAlpha is source-over alpha blending.
	BlendAlpha BlendMode = iota
	// BlendReplace overwrites the target.
	BlendReplace
)

// Material is the surface appearance. Only the albedo is sampled.
type Material struct {
	Albedo fbo.TextureID
	Blend  BlendMode
}

// HasAlbedo reports whether the material references a texture.
func (m Material) HasAlbedo() bool { return m.Albedo != 0 }
