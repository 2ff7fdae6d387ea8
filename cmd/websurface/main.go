// Command websurface shows web pages as GPU surfaces in a desktop window.
//
// Usage:
//
//	websurface [-config websurface.toml] [-url https://servo.org] [-v]
//
// With a config file, changes to the file are applied while running.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/websurface"
	"github.com/gogpu/websurface/backend/opengl"
	"github.com/gogpu/websurface/config"
	"github.com/gogpu/websurface/engine"
	_ "github.com/gogpu/websurface/engine/cdp"
	"github.com/gogpu/websurface/pass"
)

func init() {
	// GL and glfw calls must stay on the main thread.
	runtime.LockOSThread()
}

type flags struct {
	config  string
	url     string
	engine  string
	headful bool
	verbose bool
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "TOML or YAML configuration `file`")
	flag.StringVar(&f.url, "url", "", "override the first surface URL")
	flag.StringVar(&f.engine, "engine", "", "engine name (default: first available)")
	flag.BoolVar(&f.headful, "headful", false, "show the engine's own window")
	flag.BoolVar(&f.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	websurface.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, f); err != nil {
		logger.Error("websurface: exiting", "err", err)
		if errors.Is(err, engine.ErrEngineInit) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func loadConfig(f flags) (config.File, error) {
	cfg := config.Defaults()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return config.File{}, err
		}
	}
	if f.engine != "" {
		cfg.Engine = f.engine
	}
	if f.headful {
		cfg.Options.Headful = true
	}
	if f.url != "" && len(cfg.Surfaces) > 0 {
		cfg.Surfaces[0].URL = f.url
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, f flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	factory, err := engine.Lookup(cfg.Engine)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, engine.Available())
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("glfw: create window: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	dev, err := opengl.New()
	if err != nil {
		return err
	}
	defer dev.Release()

	d, err := websurface.NewDriver(websurface.Config{
		Device:  dev,
		Loader:  dev,
		Engine:  factory,
		Options: opts,
		Wake:    glfw.PostEmptyEvent,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			websurface.Logger().Warn("websurface: close", "err", err)
		}
	}()
	websurface.BridgeEvents(newWindowSource(win), d.Events())

	fbw, fbh := win.GetFramebufferSize()
	host := &host{driver: d, ids: make(map[string]websurface.SurfaceID)}
	for _, s := range cfg.Surfaces {
		if err := host.add(s, fbw, fbh); err != nil {
			return err
		}
	}

	reloads := make(chan config.File, 1)
	if f.config != "" {
		go func() {
			err := config.Watch(ctx, f.config, func(nf config.File) {
				// Keep only the newest file.
				select {
				case <-reloads:
				default:
				}
				reloads <- nf
				glfw.PostEmptyEvent()
			})
			if err != nil {
				websurface.Logger().Warn("websurface: config watch stopped", "err", err)
			}
		}()
	}

	p := pass.New(dev)
	wait := opts.FrameInterval.Seconds()
	for !win.ShouldClose() && ctx.Err() == nil {
		glfw.WaitEventsTimeout(wait)

		select {
		case nf := <-reloads:
			w, h := win.GetFramebufferSize()
			host.apply(nf, w, h)
		default:
		}

		if err := d.Tick(ctx); err != nil {
			return err
		}
		draw(win, dev, p, d.Surfaces())
	}
	return nil
}

// draw lays surfaces out left to right.
func draw(win *glfw.Window, dev *opengl.Device, p *pass.Pass, surfaces []*websurface.Surface) {
	w, h := win.GetFramebufferSize()
	dev.SetViewport(w, h)
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(0.1, 0.1, 0.12, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	items := make([]pass.Item, 0, len(surfaces))
	var x float32
	for _, s := range surfaces {
		if !s.Framebuffer().HasFramebuffer() {
			continue
		}
		items = append(items, pass.Item{Material: s.Material(), X: x})
		sw, _ := s.State().Dimensions()
		x += float32(sw)
	}
	if err := p.Draw(dev, items...); err != nil {
		websurface.Logger().Warn("websurface: draw", "err", err)
	}
	win.SwapBuffers()
}

// host maps configured surface names to driver surfaces.
type host struct {
	driver *websurface.Driver
	ids    map[string]websurface.SurfaceID
	last   map[string]config.Surface
}

// add registers s. Surfaces tracking the window start at the current
// framebuffer size when it is known.
func (h *host) add(s config.Surface, fbw, fbh int) error {
	if s.TrackWindow && fbw > 0 && fbh > 0 {
		s.Width, s.Height = uint32(fbw), uint32(fbh)
	}
	id, err := h.driver.AddSurface(websurface.SurfaceConfig{
		Name:        s.Name,
		URL:         s.URL,
		Width:       s.Width,
		Height:      s.Height,
		TrackWindow: s.TrackWindow,
	})
	if err != nil {
		return err
	}
	if h.last == nil {
		h.last = make(map[string]config.Surface)
	}
	h.ids[s.Name] = id
	h.last[s.Name] = s
	return nil
}

// apply turns a reloaded configuration into URL and size requests. New
// surfaces are added at the given framebuffer size when they track the
// window; removed ones stay until exit.
func (h *host) apply(f config.File, fbw, fbh int) {
	for _, s := range f.Surfaces {
		id, ok := h.ids[s.Name]
		if !ok {
			if err := h.add(s, fbw, fbh); err != nil {
				websurface.Logger().Warn("websurface: add surface", "surface", s.Name, "err", err)
			}
			continue
		}
		prev := h.last[s.Name]
		if s.URL != prev.URL {
			_ = h.driver.SetURL(id, s.URL)
		}
		if !s.TrackWindow && (s.Width != prev.Width || s.Height != prev.Height) {
			_ = h.driver.SetSize(id, s.Width, s.Height)
		}
		h.last[s.Name] = s
	}
	websurface.Logger().Debug("websurface: config applied", "surfaces", len(f.Surfaces))
}
