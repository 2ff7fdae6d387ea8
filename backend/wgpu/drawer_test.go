// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu_test

import "github.com/gogpu/gpucontext"

// drawerFunc records the width of every drawn texture.
type drawerFunc func(width int)

func (f drawerFunc) DrawTexture(tex gpucontext.Texture, _, _ float32) error {
	f(tex.Width())
	return nil
}

func (f drawerFunc) TextureCreator() gpucontext.TextureCreator { return nil }
