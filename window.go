package websurface

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/websurface/engine"
	"github.com/gogpu/websurface/fbo"
	"github.com/gogpu/websurface/pass"
	"github.com/gogpu/websurface/state"
)

// surfaceWindow is the engine.Window of one surface. Its methods run on the
// engine's goroutine and only touch the state cells and the event queue.
type surfaceWindow struct {
	label string
	state *state.Surface
	fbo   *fbo.Manager
	queue *EventQueue
	wake  func()
}

var _ engine.Window = (*surfaceWindow)(nil)

func (w *surfaceWindow) Coordinates() engine.Coordinates {
	width, height := w.state.Dimensions()
	size := image.Pt(int(width), int(height))
	rect := image.Rectangle{Max: size}
	return engine.Coordinates{
		ScaleFactor: 1,
		Framebuffer: size,
		Window:      rect,
		Screen:      size,
		Viewport:    rect,
	}
}

func (w *surfaceWindow) PrepareForComposite(_, _ int) bool {
	if err := w.fbo.EnableForDraw(); err != nil {
		if !errors.Is(err, fbo.ErrNoFramebuffer) {
			Logger().Warn("websurface: prepare for composite", "surface", w.label, "err", err)
		} else {
			Logger().Debug("websurface: no framebuffer, frame skipped", "surface", w.label)
		}
		return false
	}
	return true
}

// Composite uploads frame, scaling it when the engine rendered at a stale
// size.
func (w *surfaceWindow) Composite(frame *image.RGBA) error {
	if frame == nil {
		return nil
	}
	width, height := w.state.Dimensions()
	want := image.Rect(0, 0, int(width), int(height))
	src := frame
	if frame.Bounds().Size() != want.Size() || frame.Stride != 4*want.Dx() {
		dst := image.NewRGBA(want)
		pass.Blit(dst, want, frame, pass.Material{Blend: pass.BlendReplace})
		src = dst
	}
	if err := w.fbo.Upload(want.Dx(), want.Dy(), src.Pix); err != nil {
		Logger().Warn("websurface: composite", "surface", w.label, "err", err)
		return fmt.Errorf("websurface: composite %s: %w", w.label, err)
	}
	return nil
}

func (w *surfaceWindow) Present() { w.fbo.DisableAfterDraw() }

func (w *surfaceWindow) Waker() engine.Waker {
	return engine.WakerFunc(func() {
		w.queue.Post(Awakened{})
		if w.wake != nil {
			w.wake()
		}
	})
}

func (w *surfaceWindow) SupportsClipboard() bool { return false }
