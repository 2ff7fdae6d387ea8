package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
)

// windowSource adapts glfw window callbacks to gpucontext.EventSource.
// glfw has no IME composition events; those registrations are ignored.
type windowSource struct {
	gpucontext.NullEventSource
	win *glfw.Window

	keyPress, keyRelease func(gpucontext.Key, gpucontext.Modifiers)
	mousePress           func(gpucontext.MouseButton, float64, float64)
	mouseRelease         func(gpucontext.MouseButton, float64, float64)
	x, y                 float64
}

var _ gpucontext.EventSource = (*windowSource)(nil)

func newWindowSource(win *glfw.Window) *windowSource {
	s := &windowSource{win: win}
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		k := translateKey(key)
		m := translateMods(mods)
		switch action {
		case glfw.Press, glfw.Repeat:
			if s.keyPress != nil {
				s.keyPress(k, m)
			}
		case glfw.Release:
			if s.keyRelease != nil {
				s.keyRelease(k, m)
			}
		}
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		b, ok := translateButton(button)
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			if s.mousePress != nil {
				s.mousePress(b, s.x, s.y)
			}
		case glfw.Release:
			if s.mouseRelease != nil {
				s.mouseRelease(b, s.x, s.y)
			}
		}
	})
	return s
}

func (s *windowSource) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) { s.keyPress = fn }

func (s *windowSource) OnKeyRelease(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	s.keyRelease = fn
}

func (s *windowSource) OnTextInput(fn func(string)) {
	s.win.SetCharCallback(func(_ *glfw.Window, r rune) { fn(string(r)) })
}

func (s *windowSource) OnMouseMove(fn func(float64, float64)) {
	s.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		s.x, s.y = x, y
		fn(x, y)
	})
}

func (s *windowSource) OnMousePress(fn func(gpucontext.MouseButton, float64, float64)) {
	s.mousePress = fn
}

func (s *windowSource) OnMouseRelease(fn func(gpucontext.MouseButton, float64, float64)) {
	s.mouseRelease = fn
}

func (s *windowSource) OnScroll(fn func(float64, float64)) {
	// glfw reports positive yoff for scrolling up.
	s.win.SetScrollCallback(func(_ *glfw.Window, dx, dy float64) { fn(dx, -dy) })
}

func (s *windowSource) OnResize(fn func(int, int)) {
	s.win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) { fn(w, h) })
}

func (s *windowSource) OnFocus(fn func(bool)) {
	s.win.SetFocusCallback(func(_ *glfw.Window, focused bool) { fn(focused) })
}

var namedKeys = map[glfw.Key]gpucontext.Key{
	glfw.KeyEscape:       gpucontext.KeyEscape,
	glfw.KeyTab:          gpucontext.KeyTab,
	glfw.KeyBackspace:    gpucontext.KeyBackspace,
	glfw.KeyEnter:        gpucontext.KeyEnter,
	glfw.KeySpace:        gpucontext.KeySpace,
	glfw.KeyInsert:       gpucontext.KeyInsert,
	glfw.KeyDelete:       gpucontext.KeyDelete,
	glfw.KeyHome:         gpucontext.KeyHome,
	glfw.KeyEnd:          gpucontext.KeyEnd,
	glfw.KeyPageUp:       gpucontext.KeyPageUp,
	glfw.KeyPageDown:     gpucontext.KeyPageDown,
	glfw.KeyLeft:         gpucontext.KeyLeft,
	glfw.KeyRight:        gpucontext.KeyRight,
	glfw.KeyUp:           gpucontext.KeyUp,
	glfw.KeyDown:         gpucontext.KeyDown,
	glfw.KeyLeftShift:    gpucontext.KeyLeftShift,
	glfw.KeyRightShift:   gpucontext.KeyRightShift,
	glfw.KeyLeftControl:  gpucontext.KeyLeftControl,
	glfw.KeyRightControl: gpucontext.KeyRightControl,
	glfw.KeyLeftAlt:      gpucontext.KeyLeftAlt,
	glfw.KeyRightAlt:     gpucontext.KeyRightAlt,
	glfw.KeyLeftSuper:    gpucontext.KeyLeftSuper,
	glfw.KeyRightSuper:   gpucontext.KeyRightSuper,
	glfw.KeyMinus:        gpucontext.KeyMinus,
	glfw.KeyEqual:        gpucontext.KeyEqual,
	glfw.KeyLeftBracket:  gpucontext.KeyLeftBracket,
	glfw.KeyRightBracket: gpucontext.KeyRightBracket,
	glfw.KeyBackslash:    gpucontext.KeyBackslash,
	glfw.KeySemicolon:    gpucontext.KeySemicolon,
	glfw.KeyApostrophe:   gpucontext.KeyApostrophe,
	glfw.KeyGraveAccent:  gpucontext.KeyGrave,
	glfw.KeyComma:        gpucontext.KeyComma,
	glfw.KeyPeriod:       gpucontext.KeyPeriod,
	glfw.KeySlash:        gpucontext.KeySlash,
	glfw.KeyKPEnter:      gpucontext.KeyNumpadEnter,
}

func translateKey(k glfw.Key) gpucontext.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return gpucontext.KeyA + gpucontext.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return gpucontext.Key0 + gpucontext.Key(k-glfw.Key0)
	case k >= glfw.KeyF1 && k <= glfw.KeyF12:
		return gpucontext.KeyF1 + gpucontext.Key(k-glfw.KeyF1)
	case k >= glfw.KeyKP0 && k <= glfw.KeyKP9:
		return gpucontext.KeyNumpad0 + gpucontext.Key(k-glfw.KeyKP0)
	}
	return namedKeys[k]
}

func translateMods(m glfw.ModifierKey) gpucontext.Modifiers {
	var out gpucontext.Modifiers
	if m&glfw.ModShift != 0 {
		out |= gpucontext.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= gpucontext.ModControl
	}
	if m&glfw.ModAlt != 0 {
		out |= gpucontext.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= gpucontext.ModSuper
	}
	return out
}

func translateButton(b glfw.MouseButton) (gpucontext.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return gpucontext.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return gpucontext.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return gpucontext.MouseButtonMiddle, true
	case glfw.MouseButton4:
		return gpucontext.MouseButton4, true
	case glfw.MouseButton5:
		return gpucontext.MouseButton5, true
	}
	return 0, false
}
