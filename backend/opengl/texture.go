// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/websurface/fbo"
)

// Texture is a 2D RGBA8 texture owned by a Device.
type Texture struct {
	dev           *Device
	id            fbo.TextureID
	width, height int
}

var (
	_ gpucontext.Texture        = (*Texture)(nil)
	_ gpucontext.TextureUpdater = (*Texture)(nil)
)

// ID returns the GL texture name.
func (t *Texture) ID() fbo.TextureID { return t.id }

// Width implements gpucontext.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements gpucontext.Texture.
func (t *Texture) Height() int { return t.height }

// UpdateData replaces the texture contents.
func (t *Texture) UpdateData(data []byte) error {
	return t.dev.TexSubImage2D(t.id, t.width, t.height, data)
}

// NewTexture allocates an RGBA8 texture with linear filtering. pixels may
// be nil.
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
		return nil, fmt.Errorf("opengl: invalid texture size %dx%d", width, height)
	}
	if pixels != nil && len(pixels) < width*height*4 {
		return nil, fmt.Errorf("opengl: texture %dx%d needs %d bytes, got %d", width, height, width*height*4, len(pixels))
	}

	drainErrors()
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	var ptr unsafe.Pointer
	if pixels != nil {
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if err := glErr(gl.GetError(), "opengl: allocate texture"); err != nil {
		gl.DeleteTextures(1, &id)
		return nil, err
	}

	t := &Texture{dev: d, id: fbo.TextureID(id), width: width, height: height}
	d.textures[t.id] = t
	return t, nil
}

// Texture resolves id for the pass package.
func (d *Device) Texture(id fbo.TextureID) (gpucontext.Texture, bool) {
	t, ok := d.textures[id]
	return t, ok
}

// SetViewport records the default framebuffer size used by DrawTexture.
func (d *Device) SetViewport(width, height int) {
	d.viewportW, d.viewportH = width, height
}

// TextureCreator implements gpucontext.TextureDrawer.
func (d *Device) TextureCreator() gpucontext.TextureCreator { return d }

// DrawTexture copies tex into the default framebuffer with its top-left
// corner at (x, y), y measured from the top.
func (d *Device) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	t, ok := tex.(*Texture)
	if !ok || t.dev != d {
		return fmt.Errorf("%w: %T", ErrUnknownTexture, tex)
	}
	if _, live := d.textures[t.id]; !live {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, t.id)
	}

	x0 := int32(x)
	y0 := int32(d.viewportH) - int32(y) - int32(t.height)

	drainErrors()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.readFB)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(t.id), 0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	// Engine frames are top-down; flip while blitting.
	gl.BlitFramebuffer(
		0, int32(t.height), int32(t.width), 0,
		x0, y0, x0+int32(t.width), y0+int32(t.height),
		gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return glErr(gl.GetError(), "opengl: draw texture")
}
