// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/websurface/fbo"
)

// Texture is an RGBA8 surface texture with its default view.
type Texture struct {
	dev           *Device
	id            fbo.TextureID
	tex           hal.Texture
	view          hal.TextureView
	width, height int
}

var (
	_ gpucontext.Texture        = (*Texture)(nil)
	_ gpucontext.TextureUpdater = (*Texture)(nil)
)

// ID returns the texture handle.
func (t *Texture) ID() fbo.TextureID { return t.id }

// Width implements gpucontext.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements gpucontext.Texture.
func (t *Texture) Height() int { return t.height }

// HAL returns the underlying texture.
func (t *Texture) HAL() hal.Texture { return t.tex }

// View returns the default view.
func (t *Texture) View() hal.TextureView { return t.view }

// UpdateData replaces the texture contents.
func (t *Texture) UpdateData(data []byte) error {
	return t.dev.TexSubImage2D(t.id, t.width, t.height, data)
}

// NewTexture allocates a sampled, renderable RGBA8 texture. pixels may be
// nil.
func (d *Device) NewTexture(width, height int, pixels []byte) (fbo.TextureID, error) {
	t, err := d.newTexture(width, height, pixels)
	if err != nil {
		return 0, err
	}
	return t.id, nil
}

// NewTextureFromRGBA implements gpucontext.TextureCreator.
func (d *Device) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	return d.newTexture(width, height, data)
}

func (d *Device) newTexture(width, height int, pixels []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, width, height)
	}
	if pixels != nil && len(pixels) < width*height*4 {
		return nil, fmt.Errorf("wgpu: texture %dx%d needs %d bytes, got %d", width, height, width*height*4, len(pixels))
	}

	tex, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "websurface.texture",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage: gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst |
			gputypes.TextureUsageCopySrc | gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := d.dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     "websurface.texture.view",
		Format:    gputypes.TextureFormatRGBA8Unorm,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		d.dev.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view: %w", err)
	}

	d.mu.Lock()
	t := &Texture{dev: d, id: fbo.TextureID(d.nextID()), tex: tex, view: view, width: width, height: height}
	d.textures[t.id] = t
	d.mu.Unlock()

	if pixels != nil {
		if err := d.write(t, width, height, pixels); err != nil {
			d.DeleteTexture(t.id)
			return nil, err
		}
	}
	return t, nil
}

func (d *Device) write(t *Texture, width, height int, pixels []byte) error {
	err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		pixels[:width*height*4],
		&hal.ImageDataLayout{BytesPerRow: uint32(width * 4), RowsPerImage: uint32(height)},
		&hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: write texture %d: %w", t.id, err)
	}
	return nil
}

// Texture resolves id for the pass package.
func (d *Device) Texture(id fbo.TextureID) (gpucontext.Texture, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	if !ok {
		return nil, false
	}
	return t, true
}
