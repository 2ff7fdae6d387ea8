// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/websurface/fbo"
	"github.com/gogpu/websurface/internal/logging"
)

// Device is an OpenGL fbo.Device. It is not safe for concurrent use.
type Device struct {
	textures map[fbo.TextureID]*Texture
	markers  bool

	// readFB is a scratch framebuffer used to blit textures to the screen.
	readFB uint32
	// viewport is the default framebuffer size used by DrawTexture.
	viewportW, viewportH int
}

var (
	_ fbo.Device                = (*Device)(nil)
	_ gpucontext.TextureDrawer  = (*Device)(nil)
	_ gpucontext.TextureCreator = (*Device)(nil)
)

// New loads GL entry points for the current context and returns a device.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init: %w", err)
	}
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)

	d := &Device{
		textures: make(map[fbo.TextureID]*Texture),
		markers:  debugMarkersSupported(major, minor),
	}
	gl.GenFramebuffers(1, &d.readFB)
	logging.L().Debug("opengl: device ready",
		"version", fmt.Sprintf("%d.%d", major, minor),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"markers", d.markers)
	return d, nil
}

// debugMarkersSupported reports whether glDebugMessageInsert is core.
func debugMarkersSupported(major, minor int32) bool {
	return major > 4 || (major == 4 && minor >= 3)
}

// Release deletes every texture the device still owns and its scratch
// framebuffer.
func (d *Device) Release() {
	for id := range d.textures {
		d.DeleteTexture(id)
	}
	if d.readFB != 0 {
		gl.DeleteFramebuffers(1, &d.readFB)
		d.readFB = 0
	}
}

func (d *Device) GenFramebuffer() fbo.FramebufferID {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return fbo.FramebufferID(id)
}

func (d *Device) DeleteFramebuffer(id fbo.FramebufferID) {
	v := uint32(id)
	gl.DeleteFramebuffers(1, &v)
}

func (d *Device) BindFramebuffer(target fbo.Target, id fbo.FramebufferID) {
	gl.BindFramebuffer(uint32(target), uint32(id))
}

func (d *Device) FramebufferTexture2D(target fbo.Target, attachment fbo.Attachment, tex fbo.TextureID) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), gl.TEXTURE_2D, uint32(tex), 0)
}

func (d *Device) CheckFramebufferStatus(target fbo.Target) fbo.Status {
	return fbo.Status(gl.CheckFramebufferStatus(uint32(target)))
}

func (d *Device) GenRenderbuffer() fbo.RenderbufferID {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return fbo.RenderbufferID(id)
}

func (d *Device) DeleteRenderbuffer(id fbo.RenderbufferID) {
	v := uint32(id)
	gl.DeleteRenderbuffers(1, &v)
}

func (d *Device) BindRenderbuffer(id fbo.RenderbufferID) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(id))
}

// RenderbufferStorage allocates 24-bit depth storage.
func (d *Device) RenderbufferStorage(width, height int) error {
	drainErrors()
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(width), int32(height))
	return glErr(gl.GetError(), "opengl: renderbuffer storage")
}

func (d *Device) FramebufferRenderbuffer(target fbo.Target, attachment fbo.Attachment, rb fbo.RenderbufferID) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), gl.RENDERBUFFER, uint32(rb))
}

func (d *Device) BindTexture2D(tex fbo.TextureID) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (d *Device) DeleteTexture(tex fbo.TextureID) {
	if _, ok := d.textures[tex]; !ok {
		logging.L().Warn("opengl: delete of unknown texture", "texture", tex)
		return
	}
	delete(d.textures, tex)
	v := uint32(tex)
	gl.DeleteTextures(1, &v)
}

// TexSubImage2D replaces the contents of tex with tightly packed RGBA8
// rows.
func (d *Device) TexSubImage2D(tex fbo.TextureID, width, height int, pixels []byte) error {
	t, ok := d.textures[tex]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownTexture, tex)
	}
	if width > t.width || height > t.height {
		return fmt.Errorf("opengl: upload %dx%d exceeds texture %dx%d", width, height, t.width, t.height)
	}
	if len(pixels) < width*height*4 {
		return fmt.Errorf("opengl: upload %dx%d needs %d bytes, got %d", width, height, width*height*4, len(pixels))
	}
	drainErrors()
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return glErr(gl.GetError(), "opengl: upload")
}

func (d *Device) DrawBuffers(attachments ...fbo.Attachment) {
	if len(attachments) == 0 {
		return
	}
	bufs := make([]uint32, len(attachments))
	for i, a := range attachments {
		bufs[i] = uint32(a)
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

func (d *Device) PrepareDrawState() {
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

// InsertEventMarker emits a debug message on GL 4.3+ contexts and is a
// no-op elsewhere.
func (d *Device) InsertEventMarker(marker string) {
	if !d.markers || marker == "" {
		return
	}
	msg := []byte(marker)
	gl.DebugMessageInsert(gl.DEBUG_SOURCE_APPLICATION, gl.DEBUG_TYPE_MARKER, 0,
		gl.DEBUG_SEVERITY_NOTIFICATION, int32(len(msg)), &msg[0])
}
