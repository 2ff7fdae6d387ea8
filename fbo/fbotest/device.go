// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fbotest provides an in-memory fbo.Device that records every call.
package fbotest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/websurface/fbo"
)

// ErrStorage is returned by RenderbufferStorage when FailStorage is set.
var ErrStorage = errors.New("fbotest: renderbuffer storage failed")

// Size is a width and height pair.
type Size struct{ Width, Height int }

// Device is a mock fbo.Device that tracks live objects and call order.
// It also implements texture allocation so it can stand in for a
// websurface.TextureLoader. Device is safe for concurrent use.
type Device struct {
	mu sync.Mutex

	// Status is returned by CheckFramebufferStatus. Zero means complete.
	Status fbo.Status
	// FailStorage makes RenderbufferStorage fail.
	FailStorage bool
	// FailTextures makes NewTexture fail.
	FailTextures bool
	// OnCheckStatus, when set, runs at the start of CheckFramebufferStatus
	// without the device lock held.
	OnCheckStatus func()

	next uint32

	liveFramebuffers  map[fbo.FramebufferID]bool
	liveRenderbuffers map[fbo.RenderbufferID]bool
	liveTextures      map[fbo.TextureID]Size

	boundFramebuffer  fbo.FramebufferID
	boundRenderbuffer fbo.RenderbufferID
	boundTexture      fbo.TextureID

	storage map[fbo.RenderbufferID]Size
	uploads map[fbo.TextureID]int

	// Calls is the ordered call log, e.g. "GenFramebuffer=1".
	Calls []string

	FramebuffersCreated, FramebuffersDeleted   int
	RenderbuffersCreated, RenderbuffersDeleted int
	TexturesCreated, TexturesDeleted           int
	DoubleFrees                                int
	Markers                                    []string
}

// New returns an empty device.
func New() *Device {
	return &Device{
		liveFramebuffers:  make(map[fbo.FramebufferID]bool),
		liveRenderbuffers: make(map[fbo.RenderbufferID]bool),
		liveTextures:      make(map[fbo.TextureID]Size),
		storage:           make(map[fbo.RenderbufferID]Size),
		uploads:           make(map[fbo.TextureID]int),
	}
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

func (d *Device) log(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// NewTexture allocates a texture with optional initial pixels.
func (d *Device) NewTexture(width, height int, _ []byte) (fbo.TextureID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailTextures {
		return 0, errors.New("fbotest: texture allocation failed")
	}
	id := fbo.TextureID(d.id())
	d.liveTextures[id] = Size{width, height}
	d.TexturesCreated++
	d.log("NewTexture=%d %dx%d", id, width, height)
	return id, nil
}

func (d *Device) GenFramebuffer() fbo.FramebufferID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := fbo.FramebufferID(d.id())
	d.liveFramebuffers[id] = true
	d.FramebuffersCreated++
	d.log("GenFramebuffer=%d", id)
	return id
}

func (d *Device) DeleteFramebuffer(id fbo.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log("DeleteFramebuffer=%d", id)
	if !d.liveFramebuffers[id] {
		d.DoubleFrees++
		return
	}
	delete(d.liveFramebuffers, id)
	d.FramebuffersDeleted++
}

func (d *Device) BindFramebuffer(_ fbo.Target, id fbo.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.boundFramebuffer = id
}

func (d *Device) FramebufferTexture2D(_ fbo.Target, _ fbo.Attachment, tex fbo.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log("FramebufferTexture2D=%d", tex)
}

func (d *Device) CheckFramebufferStatus(fbo.Target) fbo.Status {
	if d.OnCheckStatus != nil {
		d.OnCheckStatus()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Status == 0 {
		return fbo.StatusComplete
	}
	return d.Status
}

func (d *Device) GenRenderbuffer() fbo.RenderbufferID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := fbo.RenderbufferID(d.id())
	d.liveRenderbuffers[id] = true
	d.RenderbuffersCreated++
	d.log("GenRenderbuffer=%d", id)
	return id
}

func (d *Device) DeleteRenderbuffer(id fbo.RenderbufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log("DeleteRenderbuffer=%d", id)
	if !d.liveRenderbuffers[id] {
		d.DoubleFrees++
		return
	}
	delete(d.liveRenderbuffers, id)
	delete(d.storage, id)
	d.RenderbuffersDeleted++
}

func (d *Device) BindRenderbuffer(id fbo.RenderbufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.boundRenderbuffer = id
}

func (d *Device) RenderbufferStorage(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailStorage {
		return ErrStorage
	}
	d.storage[d.boundRenderbuffer] = Size{width, height}
	d.log("RenderbufferStorage=%d %dx%d", d.boundRenderbuffer, width, height)
	return nil
}

func (d *Device) FramebufferRenderbuffer(fbo.Target, fbo.Attachment, fbo.RenderbufferID) {}

func (d *Device) BindTexture2D(tex fbo.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.boundTexture = tex
}

func (d *Device) DeleteTexture(tex fbo.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log("DeleteTexture=%d", tex)
	if _, ok := d.liveTextures[tex]; !ok {
		d.DoubleFrees++
		return
	}
	delete(d.liveTextures, tex)
	d.TexturesDeleted++
}

func (d *Device) TexSubImage2D(tex fbo.TextureID, _, _ int, _ []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.liveTextures[tex]; !ok {
		return fmt.Errorf("fbotest: upload to unknown texture %d", tex)
	}
	d.uploads[tex]++
	return nil
}

func (d *Device) DrawBuffers(...fbo.Attachment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log("DrawBuffers")
}

func (d *Device) PrepareDrawState() {}

func (d *Device) InsertEventMarker(marker string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Markers = append(d.Markers, marker)
}

// LiveFramebuffers returns the number of undeleted framebuffers.
func (d *Device) LiveFramebuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.liveFramebuffers)
}

// LiveRenderbuffers returns the number of undeleted renderbuffers.
func (d *Device) LiveRenderbuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.liveRenderbuffers)
}

// LiveTextures returns the number of undeleted textures.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.liveTextures)
}

// StorageOf returns the depth storage size of a live renderbuffer.
func (d *Device) StorageOf(id fbo.RenderbufferID) (Size, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.storage[id]
	return s, ok
}

// BoundFramebuffer returns the currently bound framebuffer.
func (d *Device) BoundFramebuffer() fbo.FramebufferID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.boundFramebuffer
}

// Uploads returns how many times tex was written.
func (d *Device) Uploads(tex fbo.TextureID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uploads[tex]
}

// Index returns the position of the first matching entry in Calls, or -1.
func (d *Device) Index(call string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, c := range d.Calls {
		if c == call {
			return i
		}
	}
	return -1
}

// Snapshot returns a copy of the call log.
func (d *Device) Snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Calls...)
}
