// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package enginetest provides a scripted engine.Engine for tests.
package enginetest

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/websurface/engine"
)

// ErrInit is returned by a factory built with FailInit.
var ErrInit = errors.New("enginetest: init failed")

// Engine records every event and answers browsing context requests.
//
// When Frame is set, each HandleEvents call composites it through the
// window the way a real engine would: PrepareForComposite, Composite and
// Present.
type Engine struct {
	mu sync.Mutex

	// NoReply suppresses the browsing context reply.
	NoReply bool
	// Frame is composited on every pass when non-nil.
	Frame *image.RGBA

	win     engine.Window
	opts    engine.Options
	events  []engine.Event
	passes  int
	next    int
	active  engine.ContextID
	closed  bool
	drawn   int
	skipped int
}

// New returns an engine bound to win.
func New(win engine.Window, opts engine.Options) *Engine {
	return &Engine{win: win, opts: opts}
}

// Factory returns a factory that records every engine it builds in out.
func Factory(out *[]*Engine) engine.Factory {
	var mu sync.Mutex
	return func(win engine.Window, opts engine.Options) (engine.Engine, error) {
		e := New(win, opts)
		mu.Lock()
		*out = append(*out, e)
		mu.Unlock()
		return e, nil
	}
}

// FailInit returns a factory that always fails.
func FailInit() engine.Factory {
	return func(engine.Window, engine.Options) (engine.Engine, error) {
		return nil, ErrInit
	}
}

// HandleEvents implements engine.Engine.
func (e *Engine) HandleEvents(events []engine.Event) {
	e.mu.Lock()
	e.passes++
	e.events = append(e.events, events...)
	for _, ev := range events {
		switch ev := ev.(type) {
		case engine.NewBrowsingContext:
			e.next++
			if !e.NoReply {
				ev.Reply <- engine.ContextID(fmt.Sprintf("ctx-%d", e.next))
			}
		case engine.SelectBrowsingContext:
			e.active = ev.ID
		}
	}
	frame, win := e.Frame, e.win
	e.mu.Unlock()

	if frame == nil || win == nil {
		return
	}
	b := frame.Bounds()
	if !win.PrepareForComposite(b.Dx(), b.Dy()) {
		e.mu.Lock()
		e.skipped++
		e.mu.Unlock()
		return
	}
	if err := win.Composite(frame); err == nil {
		e.mu.Lock()
		e.drawn++
		e.mu.Unlock()
	}
	win.Present()
}

// Close implements engine.Engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// SetFrame sets the frame composited on each pass.
func (e *Engine) SetFrame(frame *image.RGBA) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Frame = frame
}

// Events returns a copy of all received events.
func (e *Engine) Events() []engine.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.Event(nil), e.events...)
}

// Passes returns the number of HandleEvents calls.
func (e *Engine) Passes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.passes
}

// Active returns the selected browsing context.
func (e *Engine) Active() engine.ContextID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Drawn returns how many frames were composited.
func (e *Engine) Drawn() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drawn
}

// Skipped returns how many frames were skipped because the window had no
// render target.
func (e *Engine) Skipped() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skipped
}

// Options returns the options the engine was built with.
func (e *Engine) Options() engine.Options { return e.opts }

// Count returns how many received events have type T.
func Count[T engine.Event](e *Engine) int {
	n := 0
	for _, ev := range e.Events() {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}
