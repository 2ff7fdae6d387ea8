// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cdp

import (
	"strconv"
	"strings"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/websurface/engine"
)

// scrollLine is the pixel distance of one wheel notch.
const scrollLine = 40

// keyDef describes a key in DOM terms.
type keyDef struct {
	key  string
	code string
	vk   int64
	text string
}

var keys = map[gpucontext.Key]keyDef{
	gpucontext.KeyEscape:       {key: "Escape", code: "Escape", vk: 27},
	gpucontext.KeyTab:          {key: "Tab", code: "Tab", vk: 9},
	gpucontext.KeyBackspace:    {key: "Backspace", code: "Backspace", vk: 8},
	gpucontext.KeyEnter:        {key: "Enter", code: "Enter", vk: 13, text: "\r"},
	gpucontext.KeyNumpadEnter:  {key: "Enter", code: "NumpadEnter", vk: 13, text: "\r"},
	gpucontext.KeySpace:        {key: " ", code: "Space", vk: 32},
	gpucontext.KeyInsert:       {key: "Insert", code: "Insert", vk: 45},
	gpucontext.KeyDelete:       {key: "Delete", code: "Delete", vk: 46},
	gpucontext.KeyHome:         {key: "Home", code: "Home", vk: 36},
	gpucontext.KeyEnd:          {key: "End", code: "End", vk: 35},
	gpucontext.KeyPageUp:       {key: "PageUp", code: "PageUp", vk: 33},
	gpucontext.KeyPageDown:     {key: "PageDown", code: "PageDown", vk: 34},
	gpucontext.KeyLeft:         {key: "ArrowLeft", code: "ArrowLeft", vk: 37},
	gpucontext.KeyUp:           {key: "ArrowUp", code: "ArrowUp", vk: 38},
	gpucontext.KeyRight:        {key: "ArrowRight", code: "ArrowRight", vk: 39},
	gpucontext.KeyDown:         {key: "ArrowDown", code: "ArrowDown", vk: 40},
	gpucontext.KeyLeftShift:    {key: "Shift", code: "ShiftLeft", vk: 16},
	gpucontext.KeyRightShift:   {key: "Shift", code: "ShiftRight", vk: 16},
	gpucontext.KeyLeftControl:  {key: "Control", code: "ControlLeft", vk: 17},
	gpucontext.KeyRightControl: {key: "Control", code: "ControlRight", vk: 17},
	gpucontext.KeyLeftAlt:      {key: "Alt", code: "AltLeft", vk: 18},
	gpucontext.KeyRightAlt:     {key: "Alt", code: "AltRight", vk: 18},
	gpucontext.KeyLeftSuper:    {key: "Meta", code: "MetaLeft", vk: 91},
	gpucontext.KeyRightSuper:   {key: "Meta", code: "MetaRight", vk: 92},
}

func init() {
	for i := range 26 {
		letter := string(rune('a' + i))
		keys[gpucontext.KeyA+gpucontext.Key(i)] = keyDef{
			key:  letter,
			code: "Key" + strings.ToUpper(letter),
			vk:   int64('A' + i),
		}
	}
	for i := range 10 {
		digit := string(rune('0' + i))
		keys[gpucontext.Key0+gpucontext.Key(i)] = keyDef{key: digit, code: "Digit" + digit, vk: int64('0' + i)}
	}
	for i := range 12 {
		name := "F" + strconv.Itoa(i+1)
		keys[gpucontext.KeyF1+gpucontext.Key(i)] = keyDef{key: name, code: name, vk: int64(112 + i)}
	}
}

// inputState tracks modifiers and the held button across events.
type inputState struct {
	mods    input.Modifier
	pressed input.MouseButton
}

func modifiers(m gpucontext.Modifiers) input.Modifier {
	var out input.Modifier
	if m.HasAlt() {
		out |= input.ModifierAlt
	}
	if m.HasControl() {
		out |= input.ModifierCtrl
	}
	if m.HasSuper() {
		out |= input.ModifierMeta
	}
	if m.HasShift() {
		out |= input.ModifierShift
	}
	return out
}

func mouseButton(b gpucontext.MouseButton) input.MouseButton {
	switch b {
	case gpucontext.MouseButtonLeft:
		return input.Left
	case gpucontext.MouseButtonRight:
		return input.Right
	case gpucontext.MouseButtonMiddle:
		return input.Middle
	case gpucontext.MouseButton4:
		return input.Back
	case gpucontext.MouseButton5:
		return input.Forward
	default:
		return input.None
	}
}

// translate converts a host input event into protocol commands.
// Non-input events yield nil.
func (s *inputState) translate(ev engine.Event) []chromedp.Action {
	switch ev := ev.(type) {
	case engine.MouseMove:
		return []chromedp.Action{
			input.DispatchMouseEvent(input.MouseMoved, ev.X, ev.Y).
				WithButton(s.pressed).
				WithModifiers(s.mods),
		}

	case engine.MouseButton:
		btn := mouseButton(ev.Button)
		typ := input.MouseReleased
		if ev.Pressed {
			typ = input.MousePressed
			s.pressed = btn
		} else {
			s.pressed = input.None
		}
		return []chromedp.Action{
			input.DispatchMouseEvent(typ, ev.X, ev.Y).
				WithButton(btn).
				WithClickCount(1).
				WithModifiers(s.mods),
		}

	case engine.Scroll:
		return []chromedp.Action{
			input.DispatchMouseEvent(input.MouseWheel, ev.X, ev.Y).
				WithDeltaX(ev.DX * scrollLine).
				WithDeltaY(ev.DY * scrollLine).
				WithModifiers(s.mods),
		}

	case engine.Key:
		s.mods = modifiers(ev.Mods)
		def, ok := keys[ev.Key]
		if !ok {
			return nil
		}
		var p *input.DispatchKeyEventParams
		switch {
		case !ev.Pressed:
			p = input.DispatchKeyEvent(input.KeyUp)
		case def.text != "":
			p = input.DispatchKeyEvent(input.KeyDown).WithText(def.text).WithUnmodifiedText(def.text)
		default:
			// Printable text arrives separately as TextInput.
			p = input.DispatchKeyEvent(input.KeyRawDown)
		}
		return []chromedp.Action{
			p.WithKey(def.key).
				WithCode(def.code).
				WithWindowsVirtualKeyCode(def.vk).
				WithModifiers(s.mods),
		}

	case engine.TextInput:
		if ev.Text == "" {
			return nil
		}
		return []chromedp.Action{input.InsertText(ev.Text)}
	}
	return nil
}
