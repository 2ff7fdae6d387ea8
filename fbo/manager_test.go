// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fbo_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/websurface/fbo"
	"github.com/gogpu/websurface/fbo/fbotest"
	"github.com/gogpu/websurface/state"
)

func newManager(t *testing.T, w, h uint32) (*fbo.Manager, *fbotest.Device, fbo.TextureID) {
	t.Helper()
	dev := fbotest.New()
	tex, err := dev.NewTexture(int(w), int(h), nil)
	require.NoError(t, err)
	return fbo.NewManager(dev, state.NewWithDimensions(w, h)), dev, tex
}

func TestSetupFramebuffer(t *testing.T) {
	m, dev, tex := newManager(t, 640, 480)

	require.NoError(t, m.SetupFramebuffer(tex))
	assert.True(t, m.HasTarget())
	assert.True(t, m.HasFramebuffer())

	b, ok := m.State().Buffers()
	require.True(t, ok)
	size, ok := dev.StorageOf(b.DepthBuffer)
	require.True(t, ok)
	assert.Equal(t, fbotest.Size{Width: 640, Height: 480}, size)
	assert.Equal(t, fbo.FramebufferID(0), dev.BoundFramebuffer(), "default framebuffer restored")
}

func TestSetupFramebufferIdempotent(t *testing.T) {
	m, dev, tex := newManager(t, 256, 256)

	require.NoError(t, m.SetupFramebuffer(tex))
	require.NoError(t, m.SetupFramebuffer(tex))

	assert.Equal(t, 1, dev.LiveFramebuffers())
	assert.Equal(t, 1, dev.LiveRenderbuffers())
	assert.Equal(t, 2, dev.FramebuffersCreated)
	assert.Equal(t, 1, dev.FramebuffersDeleted)
	assert.Equal(t, 0, dev.DoubleFrees)
	assert.Equal(t, 1, dev.LiveTextures(), "same texture is never deleted")
}

func TestSetupFramebufferDeletesBeforeCreate(t *testing.T) {
	m, dev, tex := newManager(t, 640, 480)
	require.NoError(t, m.SetupFramebuffer(tex))
	old, _ := m.State().Buffers()

	m.State().SetDimensions(320, 240)
	next, err := dev.NewTexture(320, 240, nil)
	require.NoError(t, err)
	require.NoError(t, m.SetupFramebuffer(next))

	nb, _ := m.State().Buffers()
	size, _ := dev.StorageOf(nb.DepthBuffer)
	assert.Equal(t, fbotest.Size{Width: 320, Height: 240}, size)

	delFB := dev.Index("DeleteFramebuffer=" + itoa(uint32(old.Framebuffer)))
	delRB := dev.Index("DeleteRenderbuffer=" + itoa(uint32(old.DepthBuffer)))
	genFB := dev.Index("GenFramebuffer=" + itoa(uint32(nb.Framebuffer)))
	require.NotEqual(t, -1, delFB)
	require.NotEqual(t, -1, delRB)
	assert.Less(t, delFB, genFB)
	assert.Less(t, delRB, genFB)

	assert.Equal(t, 1, dev.TexturesDeleted, "superseded texture released")
	assert.Equal(t, 0, dev.DoubleFrees)
}

func TestSetupFramebufferIncomplete(t *testing.T) {
	m, dev, tex := newManager(t, 64, 64)
	dev.Status = fbo.StatusIncompleteAttachment

	err := m.SetupFramebuffer(tex)
	require.ErrorIs(t, err, fbo.ErrIncomplete)

	var ie *fbo.IncompleteError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, fbo.StatusIncompleteAttachment, ie.Status)

	assert.False(t, m.HasFramebuffer())
	assert.False(t, m.HasTarget(), "previous (empty) binding restored")
	assert.Equal(t, 0, dev.LiveFramebuffers())
	assert.Equal(t, 0, dev.LiveRenderbuffers())
	assert.NotEmpty(t, dev.Markers)
}

func TestSetupFramebufferIncompleteKeepsPreviousTarget(t *testing.T) {
	m, dev, tex := newManager(t, 64, 64)
	require.NoError(t, m.SetupFramebuffer(tex))

	next, _ := dev.NewTexture(64, 64, nil)
	dev.Status = fbo.StatusUnsupported
	require.Error(t, m.SetupFramebuffer(next))

	id, ok := m.State().Target()
	require.True(t, ok)
	assert.Equal(t, tex, id)
	assert.Equal(t, 2, dev.LiveTextures(), "failed setup deletes no texture")
}

func TestSetupFramebufferStorageFailure(t *testing.T) {
	m, dev, tex := newManager(t, 64, 64)
	dev.FailStorage = true

	err := m.SetupFramebuffer(tex)
	require.ErrorIs(t, err, fbotest.ErrStorage)
	assert.Equal(t, 0, dev.LiveFramebuffers())
	assert.Equal(t, 0, dev.LiveRenderbuffers())
}

func TestSetupFramebufferInvalid(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
		tex  fbo.TextureID
		want error
	}{
		{"zero width", 0, 10, 1, fbo.ErrInvalidDimensions},
		{"zero height", 10, 0, 1, fbo.ErrInvalidDimensions},
		{"no texture", 10, 10, 0, fbo.ErrNoTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := fbotest.New()
			m := fbo.NewManager(dev, state.NewWithDimensions(tt.w, tt.h))
			require.ErrorIs(t, m.SetupFramebuffer(tt.tex), tt.want)
			assert.Equal(t, 0, dev.FramebuffersCreated)
		})
	}
}

func TestSetupFramebufferLockFailure(t *testing.T) {
	m, dev, tex := newManager(t, 64, 64)
	dev.OnCheckStatus = func() {
		// A writer on another goroutine crashes while setup is in flight.
		_ = m.State().BuffersCell().Update(func(*state.Buffers) { panic("writer crashed") })
	}

	err := m.SetupFramebuffer(tex)
	require.ErrorIs(t, err, fbo.ErrLockFailure)
	assert.False(t, m.HasFramebuffer())
	assert.Equal(t, 0, dev.LiveFramebuffers(), "no orphaned framebuffer")
	assert.Equal(t, 0, dev.LiveRenderbuffers(), "no orphaned depth buffer")

	// The next attempt recovers the cell and succeeds.
	dev.OnCheckStatus = nil
	require.NoError(t, m.SetupFramebuffer(tex))
	assert.True(t, m.HasFramebuffer())
}

func TestEnableDisable(t *testing.T) {
	m, dev, tex := newManager(t, 32, 32)
	require.ErrorIs(t, m.EnableForDraw(), fbo.ErrNoFramebuffer)

	require.NoError(t, m.SetupFramebuffer(tex))
	require.NoError(t, m.EnableForDraw())
	b, _ := m.State().Buffers()
	assert.Equal(t, b.Framebuffer, dev.BoundFramebuffer())

	m.DisableAfterDraw()
	m.DisableAfterDraw()
	assert.Equal(t, fbo.FramebufferID(0), dev.BoundFramebuffer())
}

func TestUpload(t *testing.T) {
	m, dev, tex := newManager(t, 2, 2)
	require.ErrorIs(t, m.Upload(2, 2, make([]byte, 16)), fbo.ErrNoTarget)

	require.NoError(t, m.SetupFramebuffer(tex))
	require.NoError(t, m.Upload(2, 2, make([]byte, 16)))
	assert.Equal(t, 1, dev.Uploads(tex))
	assert.Error(t, m.Upload(2, 2, make([]byte, 3)))
}

func TestTeardown(t *testing.T) {
	m, dev, tex := newManager(t, 32, 32)
	require.NoError(t, m.SetupFramebuffer(tex))

	m.Teardown()
	m.Teardown()
	assert.False(t, m.HasTarget())
	assert.False(t, m.HasFramebuffer())
	assert.Equal(t, 0, dev.LiveFramebuffers())
	assert.Equal(t, 0, dev.LiveRenderbuffers())
	assert.Equal(t, 0, dev.LiveTextures())
	assert.Equal(t, 0, dev.DoubleFrees)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "COMPLETE", fbo.StatusComplete.String())
	assert.Equal(t, "Status(0x0001)", fbo.Status(1).String())
}

func itoa(v uint32) string { return strconv.FormatUint(uint64(v), 10) }
