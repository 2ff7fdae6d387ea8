package websurface_test

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/websurface"
	"github.com/gogpu/websurface/engine"
	"github.com/gogpu/websurface/engine/enginetest"
	"github.com/gogpu/websurface/fbo"
	"github.com/gogpu/websurface/fbo/fbotest"
	"github.com/gogpu/websurface/state"
)

type harness struct {
	dev     *fbotest.Device
	engines []*enginetest.Engine
	d       *websurface.Driver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{dev: fbotest.New()}
	d, err := websurface.NewDriver(websurface.Config{
		Device: h.dev,
		Loader: h.dev,
		Engine: enginetest.Factory(&h.engines),
	})
	require.NoError(t, err)
	h.d = d
	return h
}

func (h *harness) add(t *testing.T, cfg websurface.SurfaceConfig) *websurface.Surface {
	t.Helper()
	id, err := h.d.AddSurface(cfg)
	require.NoError(t, err)
	s := h.d.Surface(id)
	require.NotNil(t, s)
	return s
}

func (h *harness) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, h.d.Tick(context.Background()))
}

func TestNewDriverRequiresCollaborators(t *testing.T) {
	dev := fbotest.New()
	_, err := websurface.NewDriver(websurface.Config{Loader: dev})
	assert.ErrorIs(t, err, websurface.ErrInvalidConfig)
	_, err = websurface.NewDriver(websurface.Config{Device: dev})
	assert.ErrorIs(t, err, websurface.ErrInvalidConfig)
}

func TestAddSurfaceDefaults(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Name: "main"})

	w, ht := s.State().Dimensions()
	assert.Equal(t, uint32(state.DefaultWidth), w)
	assert.Equal(t, uint32(state.DefaultHeight), ht)
	assert.Equal(t, websurface.PhaseUninitialized, s.Phase())
	assert.False(t, s.PendingURL().Dirty)
	assert.NotZero(t, s.Texture())
	assert.Equal(t, s.Texture(), s.Material().Albedo)
	assert.Equal(t, "main", s.Name())
	assert.Len(t, h.d.Surfaces(), 1)

	_, err := h.d.AddSurface(websurface.SurfaceConfig{Width: 10})
	assert.ErrorIs(t, err, websurface.ErrInvalidDimensions)
}

func TestUnknownSurface(t *testing.T) {
	h := newHarness(t)
	id := h.add(t, websurface.SurfaceConfig{}).ID()
	other := id
	other[0] ^= 0xff

	assert.ErrorIs(t, h.d.SetURL(other, "https://servo.org"), websurface.ErrUnknownSurface)
	assert.ErrorIs(t, h.d.SetSize(other, 1, 1), websurface.ErrUnknownSurface)
	assert.Nil(t, h.d.Surface(other))
}

func TestTickTargetMissingRebind(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64})
	require.False(t, s.Framebuffer().HasTarget())

	h.tick(t)

	assert.Equal(t, 1, h.dev.FramebuffersCreated)
	assert.True(t, s.Framebuffer().HasTarget())
	assert.True(t, s.Framebuffer().HasFramebuffer())
	tex, ok := s.State().Target()
	require.True(t, ok)
	assert.Equal(t, s.Texture(), tex)
}

func TestTickIdempotent(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64})

	for range 3 {
		h.tick(t)
	}

	assert.Equal(t, 1, h.dev.FramebuffersCreated)
	assert.Equal(t, 1, h.dev.RenderbuffersCreated)
	assert.Equal(t, 1, h.dev.LiveFramebuffers())
	assert.Equal(t, 1, h.dev.LiveTextures())
	assert.True(t, s.Framebuffer().HasFramebuffer())
}

func TestTickRebindsAfterFailedSetup(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64})

	h.dev.Status = fbo.StatusUnsupported
	h.tick(t)
	assert.False(t, s.Framebuffer().HasFramebuffer())
	assert.Equal(t, 0, h.dev.LiveFramebuffers())

	h.dev.Status = 0
	h.tick(t)
	assert.True(t, s.Framebuffer().HasFramebuffer())
	assert.Equal(t, 1, h.dev.LiveFramebuffers())
	assert.Zero(t, h.dev.DoubleFrees)
}

func TestResizeDeletesBeforeCreate(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 640, Height: 480})
	h.tick(t)

	old, ok := s.State().Buffers()
	require.True(t, ok)
	oldTex := s.Texture()

	require.NoError(t, h.d.SetSize(s.ID(), 320, 240))
	h.tick(t)

	cur, ok := s.State().Buffers()
	require.True(t, ok)
	assert.NotEqual(t, old, cur)

	delFB := h.dev.Index(fmt.Sprintf("DeleteFramebuffer=%d", old.Framebuffer))
	delRB := h.dev.Index(fmt.Sprintf("DeleteRenderbuffer=%d", old.DepthBuffer))
	genFB := h.dev.Index(fmt.Sprintf("GenFramebuffer=%d", cur.Framebuffer))
	require.NotEqual(t, -1, delFB)
	require.NotEqual(t, -1, delRB)
	assert.Less(t, delFB, genFB)
	assert.Less(t, delRB, genFB)

	storage, ok := h.dev.StorageOf(cur.DepthBuffer)
	require.True(t, ok)
	assert.Equal(t, fbotest.Size{Width: 320, Height: 240}, storage)

	w, ht := s.State().Dimensions()
	assert.Equal(t, [2]uint32{320, 240}, [2]uint32{w, ht})
	assert.False(t, s.PendingSize().Dirty)
	assert.NotEqual(t, oldTex, s.Texture())
	assert.Equal(t, s.Texture(), s.Material().Albedo)
	assert.NotEqual(t, -1, h.dev.Index(fmt.Sprintf("DeleteTexture=%d", oldTex)))

	assert.Equal(t, 1, h.dev.LiveFramebuffers())
	assert.Equal(t, 1, h.dev.LiveRenderbuffers())
	assert.Equal(t, 1, h.dev.LiveTextures())
	assert.Zero(t, h.dev.DoubleFrees)
}

func TestResizeFailureKeepsRequest(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64})
	h.tick(t)
	oldTex := s.Texture()

	h.dev.FailStorage = true
	require.NoError(t, h.d.SetSize(s.ID(), 32, 16))
	h.tick(t)

	assert.True(t, s.PendingSize().Dirty)
	w, ht := s.State().Dimensions()
	assert.Equal(t, [2]uint32{64, 64}, [2]uint32{w, ht})
	assert.Equal(t, oldTex, s.Texture())
	tex, ok := s.State().Target()
	require.True(t, ok)
	assert.Equal(t, oldTex, tex)
	assert.Equal(t, 1, h.dev.LiveTextures())

	h.dev.FailStorage = false
	h.tick(t)

	assert.False(t, s.PendingSize().Dirty)
	w, ht = s.State().Dimensions()
	assert.Equal(t, [2]uint32{32, 16}, [2]uint32{w, ht})
	assert.True(t, s.Framebuffer().HasFramebuffer())
	assert.Equal(t, 1, h.dev.LiveTextures())
	assert.Zero(t, h.dev.DoubleFrees)
}

func TestResizeReleasesUnboundTexture(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, h *harness)
	}{
		{"before first tick", func(*testing.T, *harness) {}},
		{"after failed bind", func(t *testing.T, h *harness) {
			h.dev.Status = fbo.StatusUnsupported
			require.NoError(t, h.d.Tick(context.Background()))
			h.dev.Status = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64})
			tt.setup(t, h)
			require.False(t, s.Framebuffer().HasTarget())
			oldTex := s.Texture()

			require.NoError(t, h.d.SetSize(s.ID(), 32, 32))
			h.tick(t)

			assert.NotEqual(t, oldTex, s.Texture())
			assert.True(t, s.Framebuffer().HasFramebuffer())
			assert.Equal(t, 1, h.dev.LiveTextures())
			assert.GreaterOrEqual(t, h.dev.Index(fmt.Sprintf("DeleteTexture=%d", oldTex)), 0)

			require.NoError(t, h.d.Close())
			assert.Zero(t, h.dev.LiveTextures())
			assert.Zero(t, h.dev.DoubleFrees)
		})
	}
}

func TestZeroResizeIgnored(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64})
	h.tick(t)

	require.NoError(t, h.d.SetSize(s.ID(), 0, 10))
	h.tick(t)

	assert.False(t, s.PendingSize().Dirty)
	w, ht := s.State().Dimensions()
	assert.Equal(t, [2]uint32{64, 64}, [2]uint32{w, ht})
	assert.Equal(t, 1, h.dev.FramebuffersCreated)
}

func TestNavigateEdgeTriggered(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64, URL: "https://servo.org"})
	require.True(t, s.PendingURL().Dirty)

	h.tick(t)
	require.Len(t, h.engines, 1)
	e := h.engines[0]
	assert.Equal(t, websurface.PhaseActive, s.Phase())
	assert.False(t, s.PendingURL().Dirty)
	assert.Equal(t, 1, enginetest.Count[engine.NewBrowsingContext](e))
	assert.Equal(t, s.Session().ContextID(), e.Active())

	require.NoError(t, h.d.SetURL(s.ID(), "https://example.com/docs"))
	h.tick(t)
	h.tick(t)

	assert.Equal(t, 1, enginetest.Count[engine.LoadURL](e))
	assert.False(t, s.PendingURL().Dirty)
	assert.Equal(t, "https://example.com/docs", s.Session().URL().String())
	assert.Len(t, h.engines, 1)
}

func TestInvalidInitialURL(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64, URL: "not a url"})

	h.tick(t)

	assert.Empty(t, h.engines)
	assert.Equal(t, websurface.PhaseUninitialized, s.Phase())
	assert.False(t, s.PendingURL().Dirty)
	assert.Nil(t, s.Session())
}

func TestInvalidURLNotDispatched(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64, URL: "https://servo.org"})
	h.tick(t)
	require.Len(t, h.engines, 1)

	require.NoError(t, h.d.SetURL(s.ID(), "::not-a-url"))
	h.tick(t)

	assert.Zero(t, enginetest.Count[engine.LoadURL](h.engines[0]))
	assert.False(t, s.PendingURL().Dirty)
	assert.Equal(t, "https://servo.org", s.Session().URL().String())
}

func TestEngineInitFailureIsFatal(t *testing.T) {
	dev := fbotest.New()
	d, err := websurface.NewDriver(websurface.Config{
		Device: dev,
		Loader: dev,
		Engine: enginetest.FailInit(),
	})
	require.NoError(t, err)
	_, err = d.AddSurface(websurface.SurfaceConfig{Width: 8, Height: 8, URL: "https://servo.org"})
	require.NoError(t, err)

	err = d.Tick(context.Background())
	assert.ErrorIs(t, err, engine.ErrEngineInit)
	assert.ErrorIs(t, err, enginetest.ErrInit)
}

func TestPoisonedDimensionsRecover(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64})
	h.tick(t)

	cell := s.State().DimensionsCell()
	err := cell.Update(func(*state.Dimensions) { panic("boom") })
	require.ErrorIs(t, err, state.ErrPoisoned)
	require.True(t, cell.Poisoned())

	require.NoError(t, h.d.SetSize(s.ID(), 48, 32))
	require.NotPanics(t, func() { h.tick(t) })

	assert.False(t, cell.Poisoned())
	w, ht := s.State().Dimensions()
	assert.Equal(t, [2]uint32{48, 32}, [2]uint32{w, ht})
	assert.True(t, s.Framebuffer().HasFramebuffer())
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{R: 1, A: 0xff})
	return img
}

func TestAwakenedComposites(t *testing.T) {
	h := newHarness(t)
	s := h.add(t, websurface.SurfaceConfig{Width: 16, Height: 16, URL: "https://servo.org"})
	h.tick(t)
	require.Len(t, h.engines, 1)
	e := h.engines[0]

	e.SetFrame(solid(16, 16))
	h.d.Events().Post(websurface.Awakened{})
	h.tick(t)

	assert.Equal(t, 1, e.Drawn())
	assert.Equal(t, 1, h.dev.Uploads(s.Texture()))
	assert.Equal(t, fbo.FramebufferID(0), h.dev.BoundFramebuffer())

	// A stale-sized frame is scaled to the surface.
	e.SetFrame(solid(40, 10))
	h.d.Events().Post(websurface.Awakened{})
	h.tick(t)
	assert.Equal(t, 2, e.Drawn())
	assert.Equal(t, 2, h.dev.Uploads(s.Texture()))
}

func TestCompositeSkippedWithoutFramebuffer(t *testing.T) {
	h := newHarness(t)
	h.dev.Status = fbo.StatusUnsupported
	h.add(t, websurface.SurfaceConfig{Width: 16, Height: 16, URL: "https://servo.org"})
	h.tick(t)
	require.Len(t, h.engines, 1)
	e := h.engines[0]

	e.SetFrame(solid(16, 16))
	h.d.Events().Post(websurface.Awakened{})
	h.tick(t)

	assert.Zero(t, e.Drawn())
	assert.Positive(t, e.Skipped())
}

func TestWindowResizeTracksSurface(t *testing.T) {
	h := newHarness(t)
	tracked := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64, URL: "https://servo.org", TrackWindow: true})
	fixed := h.add(t, websurface.SurfaceConfig{Width: 64, Height: 64})
	h.tick(t)
	require.Len(t, h.engines, 1)

	h.d.Events().Post(websurface.WindowEvent{Event: engine.Resize{Width: 200, Height: 100}})
	h.tick(t)
	assert.True(t, tracked.PendingSize().Dirty)
	assert.False(t, fixed.PendingSize().Dirty)

	h.tick(t)
	w, ht := tracked.State().Dimensions()
	assert.Equal(t, [2]uint32{200, 100}, [2]uint32{w, ht})
	w, ht = fixed.State().Dimensions()
	assert.Equal(t, [2]uint32{64, 64}, [2]uint32{w, ht})

	var resizes []engine.Resize
	for _, ev := range h.engines[0].Events() {
		if r, ok := ev.(engine.Resize); ok {
			resizes = append(resizes, r)
		}
	}
	assert.Equal(t, []engine.Resize{{Width: 200, Height: 100}}, resizes)
}

func TestInputForwardedToActiveSessions(t *testing.T) {
	h := newHarness(t)
	h.add(t, websurface.SurfaceConfig{Width: 8, Height: 8, URL: "https://servo.org"})
	h.add(t, websurface.SurfaceConfig{Width: 8, Height: 8, URL: "https://example.com"})
	h.add(t, websurface.SurfaceConfig{Width: 8, Height: 8})
	h.tick(t)
	require.Len(t, h.engines, 2)

	q := h.d.Events()
	q.Post(websurface.WindowEvent{Event: engine.MouseMove{X: 3, Y: 4}})
	q.Post(websurface.Other{Name: "ignored"})
	h.tick(t)

	for _, e := range h.engines {
		assert.Equal(t, 1, enginetest.Count[engine.MouseMove](e))
	}
	assert.Zero(t, q.Len())
}

func TestCloseReleasesEverything(t *testing.T) {
	h := newHarness(t)
	h.add(t, websurface.SurfaceConfig{Width: 8, Height: 8, URL: "https://servo.org"})
	h.add(t, websurface.SurfaceConfig{Width: 8, Height: 8})
	h.tick(t)
	// Never set up.
	h.add(t, websurface.SurfaceConfig{Width: 8, Height: 8})

	require.NoError(t, h.d.Close())
	require.NoError(t, h.d.Close())

	assert.Zero(t, h.dev.LiveFramebuffers())
	assert.Zero(t, h.dev.LiveRenderbuffers())
	assert.Zero(t, h.dev.LiveTextures())
	assert.Zero(t, h.dev.DoubleFrees)
	assert.True(t, h.engines[0].Closed())
	assert.ErrorIs(t, h.d.Tick(context.Background()), websurface.ErrClosed)
}
