package websurface

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/websurface/engine"
	"github.com/gogpu/websurface/fbo"
	"github.com/gogpu/websurface/pass"
	"github.com/gogpu/websurface/state"
)

// Config holds the collaborators of a Driver.
type Config struct {
	// Device issues framebuffer commands. Required.
	Device fbo.Device
	// Loader allocates surface textures. Required. Its handles must belong
	// to Device: the driver and the framebuffer manager release them with
	// Device.DeleteTexture. Both backends implement the two interfaces on
	// one object.
	Loader TextureLoader
	// Engine builds one engine per surface. Required before the first
	// navigation.
	Engine engine.Factory
	// Options are passed to every engine.
	Options engine.Options
	// Wake is called from engine goroutines after an Awakened event is
	// queued, e.g. glfw.PostEmptyEvent. Optional.
	Wake func()
}

// Driver runs the per-frame surface update. It is owned by one goroutine;
// only the EventQueue returned by Events may be used from others.
type Driver struct {
	dev    fbo.Device
	loader TextureLoader
	engine engine.Factory
	opts   engine.Options
	wake   func()

	queue    *EventQueue
	surfaces []*Surface
	byID     map[SurfaceID]*Surface
	closed   bool
}

// NewDriver returns a driver with no surfaces.
func NewDriver(cfg Config) (*Driver, error) {
	if cfg.Device == nil {
		return nil, fmt.Errorf("%w: nil Device", ErrInvalidConfig)
	}
	if cfg.Loader == nil {
		return nil, fmt.Errorf("%w: nil Loader", ErrInvalidConfig)
	}
	return &Driver{
		dev:    cfg.Device,
		loader: cfg.Loader,
		engine: cfg.Engine,
		opts:   cfg.Options.WithDefaults(),
		wake:   cfg.Wake,
		queue:  &EventQueue{},
		byID:   make(map[SurfaceID]*Surface),
	}, nil
}

// Events returns the host event queue.
func (d *Driver) Events() *EventQueue { return d.queue }

// AddSurface allocates a surface texture and registers the surface. The
// framebuffer is built on the next Tick; a non-empty URL is navigated on
// the same tick.
func (d *Driver) AddSurface(cfg SurfaceConfig) (SurfaceID, error) {
	if d.closed {
		return uuid.Nil, ErrClosed
	}
	w, h := cfg.Width, cfg.Height
	if w == 0 && h == 0 {
		w, h = state.DefaultWidth, state.DefaultHeight
	}
	if w == 0 || h == 0 {
		return uuid.Nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	tex, err := d.loader.NewTexture(int(w), int(h), nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("websurface: allocate surface texture: %w", err)
	}

	st := state.NewWithDimensions(w, h)
	s := &Surface{
		id:       uuid.New(),
		name:     cfg.Name,
		track:    cfg.TrackWindow,
		url:      URL{Value: cfg.URL, Dirty: cfg.URL != ""},
		size:     Size{Width: w, Height: h},
		state:    st,
		fbo:      fbo.NewManager(d.dev, st),
		texture:  tex,
		material: pass.Material{Albedo: tex},
	}
	s.win = &surfaceWindow{
		label: s.label(),
		state: st,
		fbo:   s.fbo,
		queue: d.queue,
		wake:  d.wake,
	}
	d.surfaces = append(d.surfaces, s)
	d.byID[s.id] = s

	Logger().Debug("websurface: surface added", "surface", s.label(), "width", w, "height", h)
	return s.id, nil
}

// Surface returns the surface with the given ID, or nil.
func (d *Driver) Surface(id SurfaceID) *Surface { return d.byID[id] }

// Surfaces returns all surfaces in insertion order.
func (d *Driver) Surfaces() []*Surface {
	return append([]*Surface(nil), d.surfaces...)
}

// SetURL requests navigation to raw on the next tick. Validation happens
// there.
func (d *Driver) SetURL(id SurfaceID, raw string) error {
	s, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, id)
	}
	s.url = URL{Value: raw, Dirty: true}
	return nil
}

// SetSize requests a resize on the next tick.
func (d *Driver) SetSize(id SurfaceID, width, height uint32) error {
	s, ok := d.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, id)
	}
	s.size = Size{Width: width, Height: height, Dirty: true}
	return nil
}

// Tick runs one update: pending resizes, framebuffer re-binds, pending
// navigations, then one drain of the host event queue.
//
// Recoverable failures are logged and retried on a later tick. Only an
// engine that cannot start is returned, wrapping engine.ErrEngineInit.
func (d *Driver) Tick(ctx context.Context) error {
	if d.closed {
		return ErrClosed
	}
	for _, s := range d.surfaces {
		if s.size.Dirty {
			d.resize(s)
		}
	}
	for _, s := range d.surfaces {
		if !s.fbo.HasFramebuffer() && s.texture != 0 {
			d.rebind(s)
		}
	}
	for _, s := range d.surfaces {
		if s.url.Dirty {
			if err := d.navigate(ctx, s); err != nil {
				return err
			}
		}
	}
	d.drain()
	return nil
}

func (d *Driver) resize(s *Surface) {
	req := s.size
	if req.Width == 0 || req.Height == 0 {
		Logger().Warn("websurface: ignoring zero-sized resize",
			"surface", s.label(), "width", req.Width, "height", req.Height)
		s.size.Dirty = false
		return
	}

	prevW, prevH := s.state.Dimensions()
	old := s.texture
	bound, hasTarget := s.state.Target()
	tex, err := d.loader.NewTexture(int(req.Width), int(req.Height), nil)
	if err != nil {
		Logger().Warn("websurface: resize texture", "surface", s.label(), "err", err)
		return
	}
	s.state.SetDimensions(req.Width, req.Height)

	if err := s.fbo.SetupFramebuffer(tex); err != nil {
		d.dev.DeleteTexture(tex)
		s.state.SetDimensions(prevW, prevH)
		Logger().Warn("websurface: resize framebuffer",
			"surface", s.label(), "width", req.Width, "height", req.Height, "err", err)
		return
	}

	// SetupFramebuffer released the previous target; an unbound old
	// texture is ours to free.
	if old != 0 && old != tex && (!hasTarget || bound != old) {
		d.dev.DeleteTexture(old)
	}
	s.texture = tex
	s.material.Albedo = tex
	s.size.Dirty = false
	if s.session != nil {
		s.session.Resize(int(req.Width), int(req.Height))
		d.queue.Post(Awakened{})
	}
	Logger().Debug("websurface: surface resized",
		"surface", s.label(), "width", req.Width, "height", req.Height)
}

func (d *Driver) rebind(s *Surface) {
	if err := s.fbo.SetupFramebuffer(s.texture); err != nil {
		Logger().Warn("websurface: rebind framebuffer", "surface", s.label(), "err", err)
	}
}

func (d *Driver) navigate(ctx context.Context, s *Surface) error {
	raw := s.url.Value
	s.url.Dirty = false

	switch s.phase {
	case PhaseUninitialized:
		sess, err := engine.Start(ctx, d.engine, s.win, raw, d.opts)
		if err != nil {
			if errors.Is(err, engine.ErrEngineInit) {
				Logger().Error("websurface: engine start", "surface", s.label(), "err", err)
				return fmt.Errorf("websurface: surface %s: %w", s.label(), err)
			}
			Logger().Warn("websurface: initial url", "surface", s.label(), "url", raw, "err", err)
			return nil
		}
		s.session = sess
		s.phase = PhaseActive
	case PhaseActive:
		if err := s.session.Navigate(raw); err != nil {
			Logger().Warn("websurface: navigate", "surface", s.label(), "url", raw, "err", err)
		}
	}
	return nil
}

func (d *Driver) drain() {
	for _, ev := range d.queue.Drain() {
		switch ev := ev.(type) {
		case Awakened:
			for _, s := range d.surfaces {
				if s.session != nil {
					s.session.Pump()
				}
			}
		case WindowEvent:
			if r, ok := ev.Event.(engine.Resize); ok {
				d.windowResized(r)
				continue
			}
			for _, s := range d.surfaces {
				if s.session != nil {
					s.session.Pump(ev.Event)
				}
			}
		}
	}
}

func (d *Driver) windowResized(r engine.Resize) {
	if r.Width <= 0 || r.Height <= 0 {
		Logger().Debug("websurface: window minimized", "width", r.Width, "height", r.Height)
		return
	}
	for _, s := range d.surfaces {
		if s.track {
			s.size = Size{Width: uint32(r.Width), Height: uint32(r.Height), Dirty: true}
		}
	}
}

// Close shuts down every session and releases every GPU resource.
// Session close errors are joined.
func (d *Driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for _, s := range d.surfaces {
		if s.session != nil {
			if err := s.session.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		bound, ok := s.state.Target()
		s.fbo.Teardown()
		if s.texture != 0 && (!ok || bound != s.texture) {
			d.dev.DeleteTexture(s.texture)
		}
		s.texture = 0
		s.material.Albedo = 0
	}
	return errors.Join(errs...)
}
