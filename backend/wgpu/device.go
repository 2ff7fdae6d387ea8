// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/websurface/fbo"
	"github.com/gogpu/websurface/internal/logging"
	"github.com/gogpu/websurface/pass"
)

var (
	// ErrNilDevice is returned when New is given no HAL device or queue.
	ErrNilDevice = errors.New("wgpu: HAL device is nil")

	// ErrInvalidTextureSize is returned for zero or negative sizes.
	ErrInvalidTextureSize = errors.New("wgpu: invalid texture size")

	// ErrUnknownTexture is returned for textures this device did not create.
	ErrUnknownTexture = errors.New("wgpu: unknown texture")

	// ErrNoRenderbuffer is returned by RenderbufferStorage with nothing bound.
	ErrNoRenderbuffer = errors.New("wgpu: no renderbuffer bound")
)

type framebuffer struct {
	color fbo.TextureID
	depth fbo.RenderbufferID
}

type renderbuffer struct {
	tex           hal.Texture
	view          hal.TextureView
	width, height int
}

// DrawState is the fixed-function state requested by PrepareDrawState.
type DrawState struct {
	CullMode     gputypes.CullMode
	DepthCompare gputypes.CompareFunction
}

// Device is an fbo.Device backed by a HAL device. It is safe for
// concurrent use.
type Device struct {
	mu sync.Mutex

	dev   hal.Device
	queue hal.Queue
	blit  hal.ShaderModule

	next          uint32
	textures      map[fbo.TextureID]*Texture
	framebuffers  map[fbo.FramebufferID]*framebuffer
	renderbuffers map[fbo.RenderbufferID]*renderbuffer

	boundFB   fbo.FramebufferID
	boundRB   fbo.RenderbufferID
	boundTex  fbo.TextureID
	drawBufs  []fbo.Attachment
	drawState DrawState
}

var (
	_ fbo.Device                = (*Device)(nil)
	_ gpucontext.TextureCreator = (*Device)(nil)
	_ pass.Resolver             = (*Device)(nil)
)

// New wraps an open HAL device and compiles the surface blit shader.
func New(dev hal.Device, queue hal.Queue) (*Device, error) {
	if dev == nil || queue == nil {
		return nil, ErrNilDevice
	}
	words, err := pass.CompileBlitShader()
	if err != nil {
		return nil, err
	}
	blit, err := dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "websurface.blit",
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create blit shader: %w", err)
	}
	logging.L().Debug("wgpu: device ready", "blitWords", len(words))
	return &Device{
		dev:           dev,
		queue:         queue,
		blit:          blit,
		textures:      make(map[fbo.TextureID]*Texture),
		framebuffers:  make(map[fbo.FramebufferID]*framebuffer),
		renderbuffers: make(map[fbo.RenderbufferID]*renderbuffer),
	}, nil
}

// BlitShader returns the compiled surface blit shader module.
func (d *Device) BlitShader() hal.ShaderModule { return d.blit }

// Release destroys every resource the device still owns. The HAL device
// itself stays open.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, rb := range d.renderbuffers {
		d.destroyStorage(rb)
		delete(d.renderbuffers, id)
	}
	for id, t := range d.textures {
		d.destroyTexture(t)
		delete(d.textures, id)
	}
	clear(d.framebuffers)
	if d.blit != nil {
		d.dev.DestroyShaderModule(d.blit)
		d.blit = nil
	}
}

// nextID returns a fresh handle. Handles share one space so a stale ID of
// one kind never aliases another. Called with d.mu held.
func (d *Device) nextID() uint32 {
	d.next++
	return d.next
}

func (d *Device) GenFramebuffer() fbo.FramebufferID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := fbo.FramebufferID(d.nextID())
	d.framebuffers[id] = &framebuffer{}
	return id
}

func (d *Device) DeleteFramebuffer(id fbo.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.framebuffers[id]; !ok {
		logging.L().Warn("wgpu: delete of unknown framebuffer", "framebuffer", id)
		return
	}
	delete(d.framebuffers, id)
	if d.boundFB == id {
		d.boundFB = 0
	}
}

// BindFramebuffer binds id. Read and draw targets share one binding.
func (d *Device) BindFramebuffer(_ fbo.Target, id fbo.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.boundFB = id
}

func (d *Device) FramebufferTexture2D(_ fbo.Target, attachment fbo.Attachment, tex fbo.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fb, ok := d.framebuffers[d.boundFB]
	if !ok || attachment != fbo.AttachmentColor0 {
		return
	}
	fb.color = tex
}

// CheckFramebufferStatus validates the bound framebuffer's attachments.
func (d *Device) CheckFramebufferStatus(fbo.Target) fbo.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	fb, ok := d.framebuffers[d.boundFB]
	if !ok {
		return fbo.StatusUndefined
	}
	if _, live := d.textures[fb.color]; !live {
		return fbo.StatusIncompleteMissingAttachment
	}
	if fb.depth != 0 {
		rb, live := d.renderbuffers[fb.depth]
		if !live || rb.tex == nil {
			return fbo.StatusIncompleteAttachment
		}
	}
	return fbo.StatusComplete
}

func (d *Device) GenRenderbuffer() fbo.RenderbufferID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := fbo.RenderbufferID(d.nextID())
	d.renderbuffers[id] = &renderbuffer{}
	return id
}

func (d *Device) DeleteRenderbuffer(id fbo.RenderbufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rb, ok := d.renderbuffers[id]
	if !ok {
		logging.L().Warn("wgpu: delete of unknown renderbuffer", "renderbuffer", id)
		return
	}
	d.destroyStorage(rb)
	delete(d.renderbuffers, id)
	if d.boundRB == id {
		d.boundRB = 0
	}
}

func (d *Device) BindRenderbuffer(id fbo.RenderbufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.boundRB = id
}

// RenderbufferStorage backs the bound renderbuffer with a Depth24Plus
// texture, replacing any previous storage.
func (d *Device) RenderbufferStorage(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, width, height)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	rb, ok := d.renderbuffers[d.boundRB]
	if !ok {
		return ErrNoRenderbuffer
	}

	tex, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label:         "websurface.depth",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth24Plus,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create depth texture: %w", err)
	}
	view, err := d.dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     "websurface.depth.view",
		Format:    gputypes.TextureFormatDepth24Plus,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectDepthOnly,
	})
	if err != nil {
		d.dev.DestroyTexture(tex)
		return fmt.Errorf("wgpu: create depth view: %w", err)
	}

	d.destroyStorage(rb)
	rb.tex, rb.view, rb.width, rb.height = tex, view, width, height
	return nil
}

func (d *Device) FramebufferRenderbuffer(_ fbo.Target, attachment fbo.Attachment, id fbo.RenderbufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fb, ok := d.framebuffers[d.boundFB]
	if !ok || attachment != fbo.AttachmentDepth {
		return
	}
	fb.depth = id
}

func (d *Device) BindTexture2D(tex fbo.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.boundTex = tex
}

func (d *Device) DeleteTexture(id fbo.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	if !ok {
		logging.L().Warn("wgpu: delete of unknown texture", "texture", id)
		return
	}
	d.destroyTexture(t)
	delete(d.textures, id)
	if d.boundTex == id {
		d.boundTex = 0
	}
}

// TexSubImage2D writes tightly packed RGBA8 rows into the top-left of tex.
func (d *Device) TexSubImage2D(id fbo.TextureID, width, height int, pixels []byte) error {
	d.mu.Lock()
	t, ok := d.textures[id]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, id)
	}
	if width <= 0 || height <= 0 || width > t.width || height > t.height {
		return fmt.Errorf("wgpu: upload %dx%d does not fit texture %dx%d", width, height, t.width, t.height)
	}
	if len(pixels) < width*height*4 {
		return fmt.Errorf("wgpu: upload %dx%d needs %d bytes, got %d", width, height, width*height*4, len(pixels))
	}
	return d.write(t, width, height, pixels)
}

func (d *Device) DrawBuffers(attachments ...fbo.Attachment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawBufs = append(d.drawBufs[:0], attachments...)
}

func (d *Device) PrepareDrawState() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawState = DrawState{CullMode: gputypes.CullModeNone, DepthCompare: gputypes.CompareFunctionLess}
}

// DrawState returns the state recorded by the last PrepareDrawState.
func (d *Device) DrawState() DrawState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drawState
}

// InsertEventMarker logs marker at debug level; HAL has no marker outside
// a command encoder.
func (d *Device) InsertEventMarker(marker string) {
	logging.L().Debug("wgpu: marker", "marker", marker)
}

// RenderTarget returns the color and depth views of the bound framebuffer.
// ok is false when no complete framebuffer is bound.
func (d *Device) RenderTarget() (color, depth hal.TextureView, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fb, bound := d.framebuffers[d.boundFB]
	if !bound {
		return nil, nil, false
	}
	t, live := d.textures[fb.color]
	if !live {
		return nil, nil, false
	}
	if rb, has := d.renderbuffers[fb.depth]; has {
		depth = rb.view
	}
	return t.view, depth, true
}

// destroyStorage releases a renderbuffer's depth texture. Called with
// d.mu held.
func (d *Device) destroyStorage(rb *renderbuffer) {
	if rb.view != nil {
		d.dev.DestroyTextureView(rb.view)
	}
	if rb.tex != nil {
		d.dev.DestroyTexture(rb.tex)
	}
	rb.tex, rb.view = nil, nil
}

// destroyTexture releases t. Called with d.mu held.
func (d *Device) destroyTexture(t *Texture) {
	if t.view != nil {
		d.dev.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		d.dev.DestroyTexture(t.tex)
	}
	t.tex, t.view = nil, nil
}
