// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package engine

import (
	"net/url"

	"github.com/gogpu/gpucontext"
)

// Event is a command or input delivered to an engine.
type Event interface {
	event()
}

// NewBrowsingContext asks the engine to open a context at URL. The engine
// sends the new ID on Reply exactly once.
type NewBrowsingContext struct {
	URL   *url.URL
	Reply chan<- ContextID
}

// SelectBrowsingContext makes a context the active one.
type SelectBrowsingContext struct {
	ID ContextID
}

// LoadURL navigates a context.
type LoadURL struct {
	ID  ContextID
	URL *url.URL
}

// Reload reloads the current document of a context.
type Reload struct {
	ID ContextID
}

// Traverse moves through session history. Negative Delta goes back.
type Traverse struct {
	ID    ContextID
	Delta int
}

// Resize reports new surface dimensions.
type Resize struct {
	Width, Height int
}

// Focus reports host window focus changes.
type Focus struct {
	Focused bool
}

// MouseMove reports the pointer position in surface pixels.
type MouseMove struct {
	X, Y float64
}

// MouseButton reports a button press or release.
type MouseButton struct {
	Button  gpucontext.MouseButton
	Pressed bool
	X, Y    float64
}

// Scroll reports a wheel delta in lines at a position. Positive deltas
// scroll right and down, as in gpucontext.
type Scroll struct {
	DX, DY float64
	X, Y   float64
}

// Key reports a physical key transition.
type Key struct {
	Key     gpucontext.Key
	Mods    gpucontext.Modifiers
	Pressed bool
}

// TextInput carries committed text.
type TextInput struct {
	Text string
}

func (NewBrowsingContext) event()    {}
func (SelectBrowsingContext) event() {}
func (LoadURL) event()               {}
func (Reload) event()                {}
func (Traverse) event()              {}
func (Resize) event()                {}
func (Focus) event()                 {}
func (MouseMove) event()             {}
func (MouseButton) event()           {}
func (Scroll) event()                {}
func (Key) event()                   {}
func (TextInput) event()             {}
