package websurface

import (
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/websurface/engine"
)

// BridgeEvents subscribes to src and posts every window event to q as a
// WindowEvent. Scroll events carry the last known pointer position and
// committed IME text becomes TextInput.
func BridgeEvents(src gpucontext.EventSource, q *EventQueue) {
	var (
		mu   sync.Mutex
		x, y float64
	)
	post := func(ev engine.Event) { q.Post(WindowEvent{Event: ev}) }

	src.OnKeyPress(func(k gpucontext.Key, mods gpucontext.Modifiers) {
		post(engine.Key{Key: k, Mods: mods, Pressed: true})
	})
	src.OnKeyRelease(func(k gpucontext.Key, mods gpucontext.Modifiers) {
		post(engine.Key{Key: k, Mods: mods})
	})
	src.OnTextInput(func(text string) {
		post(engine.TextInput{Text: text})
	})
	src.OnIMECompositionEnd(func(committed string) {
		if committed != "" {
			post(engine.TextInput{Text: committed})
		}
	})
	src.OnMouseMove(func(px, py float64) {
		mu.Lock()
		x, y = px, py
		mu.Unlock()
		post(engine.MouseMove{X: px, Y: py})
	})
	src.OnMousePress(func(b gpucontext.MouseButton, px, py float64) {
		post(engine.MouseButton{Button: b, Pressed: true, X: px, Y: py})
	})
	src.OnMouseRelease(func(b gpucontext.MouseButton, px, py float64) {
		post(engine.MouseButton{Button: b, X: px, Y: py})
	})
	src.OnScroll(func(dx, dy float64) {
		mu.Lock()
		px, py := x, y
		mu.Unlock()
		post(engine.Scroll{DX: dx, DY: dy, X: px, Y: py})
	})
	src.OnResize(func(w, h int) {
		post(engine.Resize{Width: w, Height: h})
	})
	src.OnFocus(func(focused bool) {
		post(engine.Focus{Focused: focused})
	})
}
