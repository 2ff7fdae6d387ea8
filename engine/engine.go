// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"image"
	"time"
)

// ContextID identifies a browsing context (a tab) inside an engine.
type ContextID string

// Engine is an embedded browser engine instance.
type Engine interface {
	// HandleEvents delivers a batch of events and lets the engine run one
	// scheduling pass. An empty batch is an idle tick. The engine may call
	// back into its Window synchronously.
	HandleEvents(events []Event)

	// Close shuts the engine down and releases its resources.
	Close() error
}

// Factory constructs an engine bound to win.
type Factory func(win Window, opts Options) (Engine, error)

// Window is the capability set an engine renders through.
type Window interface {
	// Coordinates reports the surface geometry.
	Coordinates() Coordinates

	// PrepareForComposite binds the surface render target. It returns
	// false when there is nothing to draw into; the engine must skip the
	// frame.
	PrepareForComposite(width, height int) bool

	// Composite writes a finished frame into the bound target.
	Composite(frame *image.RGBA) error

	// Present ends the frame and restores the default render target.
	Present()

	// Waker returns the handle the engine uses to wake the host loop.
	Waker() Waker

	// SupportsClipboard reports whether the host offers a clipboard.
	SupportsClipboard() bool
}

// Coordinates describes surface geometry in pixels.
type Coordinates struct {
	ScaleFactor float64
	Framebuffer image.Point
	Window      image.Rectangle
	Screen      image.Point
	Viewport    image.Rectangle
}

// Waker wakes the host event loop from any goroutine.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// Options are the process-wide engine settings. They are passed explicitly
// to every session instead of being stored in global state.
type Options struct {
	// ResourcesPath is the engine's profile and resource directory.
	ResourcesPath string
	// ExecPath overrides the engine executable.
	ExecPath  string
	UserAgent string
	// Headful shows the engine's own window, for debugging.
	Headful bool
	// Flags are extra engine command-line switches.
	Flags map[string]string
	// StartTimeout bounds the wait for the first browsing context.
	StartTimeout time.Duration
	// FrameInterval is the period of unsolicited repaints.
	FrameInterval time.Duration
}

// Defaults for zero Options fields.
const (
	DefaultStartTimeout  = 30 * time.Second
	DefaultFrameInterval = 100 * time.Millisecond
)

// WithDefaults returns o with zero durations replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.StartTimeout <= 0 {
		o.StartTimeout = DefaultStartTimeout
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	return o
}
