// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cdp

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/gogpu/websurface/engine"
	"github.com/gogpu/websurface/internal/logging"
)

// Name is the registry name of this engine.
const Name = "cdp"

func init() {
	engine.Register(Name, New)
}

const (
	// commandQueue bounds events waiting for the worker.
	commandQueue = 256
	// actionTimeout bounds a single protocol round trip.
	actionTimeout = 30 * time.Second
	defaultSize   = 1024
)

var errUnknownContext = errors.New("cdp: unknown browsing context")

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc // nil for the browser's first tab
}

// Engine is a Chromium-backed engine.Engine.
type Engine struct {
	win  engine.Window
	opts engine.Options

	cmds      chan engine.Event
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	// Owned by the worker goroutine.
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	tabs          map[engine.ContextID]*tab
	primaryUsed   bool
	active        engine.ContextID
	size          image.Point
	inputs        inputState
	lastCapture   []byte

	mu    sync.Mutex
	frame *image.RGBA
}

// New launches Chromium and returns an engine rendering into win.
// It fails when no browser can be started.
func New(win engine.Window, opts engine.Options) (engine.Engine, error) {
	e := newEngine(win, opts)
	if err := e.launch(); err != nil {
		return nil, err
	}
	e.wg.Add(1)
	go e.run()
	return e, nil
}

func newEngine(win engine.Window, opts engine.Options) *Engine {
	size := win.Coordinates().Framebuffer
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(defaultSize, defaultSize)
	}
	return &Engine{
		win:    win,
		opts:   opts.WithDefaults(),
		cmds:   make(chan engine.Event, commandQueue),
		done:   make(chan struct{}),
		tabs:   make(map[engine.ContextID]*tab),
		size:   size,
		inputs: inputState{pressed: input.None},
	}
}

func (e *Engine) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.WindowSize(e.size.X, e.size.Y))
	if e.opts.Headful {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if e.opts.ResourcesPath != "" {
		opts = append(opts, chromedp.UserDataDir(e.opts.ResourcesPath))
	}
	if e.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.opts.ExecPath))
	}
	if e.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(e.opts.UserAgent))
	}
	for name, value := range e.opts.Flags {
		if value == "" {
			opts = append(opts, chromedp.Flag(name, true))
		} else {
			opts = append(opts, chromedp.Flag(name, value))
		}
	}
	return opts
}

func (e *Engine) launch() error {
	log := logging.L()
	e.allocCtx, e.cancelAlloc = chromedp.NewExecAllocator(context.Background(), e.allocatorOptions()...)
	e.browserCtx, e.cancelBrowser = chromedp.NewContext(e.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) { log.Debug(fmt.Sprintf(format, args...)) }),
		chromedp.WithErrorf(func(format string, args ...any) { log.Warn(fmt.Sprintf(format, args...)) }),
	)

	// The first Run allocates the browser; a context timeout here would
	// stop it, so the deadline is enforced from outside.
	errc := make(chan error, 1)
	go func() { errc <- chromedp.Run(e.browserCtx) }()

	select {
	case err := <-errc:
		if err != nil {
			e.shutdown()
			return fmt.Errorf("cdp: launch browser: %w", err)
		}
	case <-time.After(e.opts.StartTimeout):
		e.shutdown()
		return fmt.Errorf("cdp: launch browser: timed out after %s", e.opts.StartTimeout)
	}
	log.Info("cdp: browser started", "width", e.size.X, "height", e.size.Y)
	return nil
}

// HandleEvents implements engine.Engine. Events are queued for the worker;
// the latest captured frame, if any, is composited before returning.
func (e *Engine) HandleEvents(events []engine.Event) {
	for _, ev := range events {
		select {
		case <-e.done:
			return
		default:
		}
		select {
		case e.cmds <- ev:
		default:
			logging.L().Warn("cdp: command queue full, dropping event", "event", fmt.Sprintf("%T", ev))
		}
	}
	e.composite()
}

// composite draws the pending frame through the window.
func (e *Engine) composite() {
	e.mu.Lock()
	frame := e.frame
	e.frame = nil
	e.mu.Unlock()
	if frame == nil {
		return
	}

	b := frame.Bounds()
	if !e.win.PrepareForComposite(b.Dx(), b.Dy()) {
		// Keep the frame for the next pass unless a newer one arrived.
		e.mu.Lock()
		if e.frame == nil {
			e.frame = frame
		}
		e.mu.Unlock()
		return
	}
	if err := e.win.Composite(frame); err != nil {
		logging.L().Warn("cdp: composite failed", "err", err)
	}
	e.win.Present()
}

func (e *Engine) setFrame(frame *image.RGBA) {
	e.mu.Lock()
	e.frame = frame
	e.mu.Unlock()
	e.win.Waker().Wake()
}

func (e *Engine) run() {
	defer e.wg.Done()
	ticker := time.NewTicker(e.opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.done:
			return
		case ev := <-e.cmds:
			if e.exec(ev) {
				e.capture()
			}
		case <-ticker.C:
			e.capture()
		}
	}
}

// exec runs one event on the browser and reports whether the page may
// have changed.
func (e *Engine) exec(ev engine.Event) bool {
	var err error
	switch ev := ev.(type) {
	case engine.NewBrowsingContext:
		e.openTab(ev)
		return true
	case engine.SelectBrowsingContext:
		if _, ok := e.tabs[ev.ID]; !ok {
			err = fmt.Errorf("%w: %s", errUnknownContext, ev.ID)
			break
		}
		e.active = ev.ID
		err = e.do(ev.ID, page.BringToFront())
	case engine.LoadURL:
		err = e.do(ev.ID, navigate(ev.URL.String()))
	case engine.Reload:
		err = e.do(ev.ID, page.Reload())
	case engine.Traverse:
		err = e.do(ev.ID, traverse(ev.Delta)...)
	case engine.Resize:
		err = e.resize(ev.Width, ev.Height)
	case engine.Focus:
		if ev.Focused && e.active != "" {
			err = e.do(e.active, page.BringToFront())
		}
		return false
	default:
		actions := e.inputs.translate(ev)
		if len(actions) == 0 || e.active == "" {
			return false
		}
		err = e.do(e.active, actions...)
	}
	if err != nil {
		logging.L().Warn("cdp: command failed", "event", fmt.Sprintf("%T", ev), "err", err)
		return false
	}
	return true
}

func (e *Engine) openTab(ev engine.NewBrowsingContext) {
	t := &tab{ctx: e.browserCtx}
	if e.primaryUsed {
		t.ctx, t.cancel = chromedp.NewContext(e.browserCtx)
		if err := chromedp.Run(t.ctx); err != nil {
			t.cancel()
			logging.L().Error("cdp: open tab", "err", err)
			return
		}
	}
	e.primaryUsed = true

	c := chromedp.FromContext(t.ctx)
	if c == nil || c.Target == nil {
		logging.L().Error("cdp: open tab: no target")
		return
	}
	id := engine.ContextID(c.Target.TargetID)
	e.tabs[id] = t
	ev.Reply <- id

	err := e.do(id,
		chromedp.EmulateViewport(int64(e.size.X), int64(e.size.Y)),
		navigate(ev.URL.String()),
	)
	if err != nil {
		logging.L().Warn("cdp: initial load", "context", id, "url", ev.URL.String(), "err", err)
	}
}

func (e *Engine) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("cdp: invalid size %dx%d", width, height)
	}
	e.size = image.Pt(width, height)
	var errs []error
	for id := range e.tabs {
		errs = append(errs, e.do(id, chromedp.EmulateViewport(int64(width), int64(height))))
	}
	return errors.Join(errs...)
}

// do runs actions on a tab with a bounded deadline.
func (e *Engine) do(id engine.ContextID, actions ...chromedp.Action) error {
	t, ok := e.tabs[id]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownContext, id)
	}
	ctx, cancel := context.WithTimeout(t.ctx, actionTimeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func navigate(u string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errorText, _, err := page.Navigate(u).Do(ctx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("cdp: navigate %s: %s", u, errorText)
		}
		return nil
	})
}

func traverse(delta int) []chromedp.Action {
	var actions []chromedp.Action
	for ; delta < 0; delta++ {
		actions = append(actions, chromedp.NavigateBack())
	}
	for ; delta > 0; delta-- {
		actions = append(actions, chromedp.NavigateForward())
	}
	return actions
}

// Close implements engine.Engine. It stops the worker and the browser.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		close(e.done)
		e.wg.Wait()
		for _, t := range e.tabs {
			if t.cancel != nil {
				t.cancel()
			}
		}
		if e.browserCtx != nil {
			err = chromedp.Cancel(e.browserCtx)
		}
		e.shutdown()
	})
	return err
}

func (e *Engine) shutdown() {
	if e.cancelBrowser != nil {
		e.cancelBrowser()
	}
	if e.cancelAlloc != nil {
		e.cancelAlloc()
	}
}
