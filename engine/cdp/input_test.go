// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cdp

import (
	"testing"

	"github.com/chromedp/cdproto/input"
	"github.com/gogpu/gpucontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/websurface/engine"
)

func mouseParams(t *testing.T, s *inputState, ev engine.Event) *input.DispatchMouseEventParams {
	t.Helper()
	actions := s.translate(ev)
	require.Len(t, actions, 1)
	p, ok := actions[0].(*input.DispatchMouseEventParams)
	require.True(t, ok, "got %T", actions[0])
	return p
}

func keyParams(t *testing.T, s *inputState, ev engine.Event) *input.DispatchKeyEventParams {
	t.Helper()
	actions := s.translate(ev)
	require.Len(t, actions, 1)
	p, ok := actions[0].(*input.DispatchKeyEventParams)
	require.True(t, ok, "got %T", actions[0])
	return p
}

func TestTranslateMouse(t *testing.T) {
	s := &inputState{pressed: input.None}

	p := mouseParams(t, s, engine.MouseButton{Button: gpucontext.MouseButtonLeft, Pressed: true, X: 10, Y: 20})
	assert.Equal(t, input.MousePressed, p.Type)
	assert.Equal(t, input.Left, p.Button)
	assert.Equal(t, int64(1), p.ClickCount)
	assert.Equal(t, 10.0, p.X)
	assert.Equal(t, 20.0, p.Y)

	p = mouseParams(t, s, engine.MouseMove{X: 11, Y: 21})
	assert.Equal(t, input.MouseMoved, p.Type)
	assert.Equal(t, input.Left, p.Button, "drag keeps button")

	p = mouseParams(t, s, engine.MouseButton{Button: gpucontext.MouseButtonLeft, X: 11, Y: 21})
	assert.Equal(t, input.MouseReleased, p.Type)

	p = mouseParams(t, s, engine.MouseMove{X: 12, Y: 22})
	assert.Equal(t, input.None, p.Button)
}

func TestTranslateScroll(t *testing.T) {
	s := &inputState{pressed: input.None}
	p := mouseParams(t, s, engine.Scroll{DX: 0, DY: 1, X: 5, Y: 5})
	assert.Equal(t, input.MouseWheel, p.Type)
	assert.Equal(t, float64(scrollLine), p.DeltaY)
}

func TestTranslateKeys(t *testing.T) {
	tests := []struct {
		name    string
		ev      engine.Key
		typ     input.KeyType
		key     string
		code    string
		vk      int64
		text    string
		modMask input.Modifier
	}{
		{"enter down", engine.Key{Key: gpucontext.KeyEnter, Pressed: true}, input.KeyDown, "Enter", "Enter", 13, "\r", 0},
		{"enter up", engine.Key{Key: gpucontext.KeyEnter}, input.KeyUp, "Enter", "Enter", 13, "", 0},
		{"letter raw", engine.Key{Key: gpucontext.KeyC, Pressed: true, Mods: gpucontext.ModControl}, input.KeyRawDown, "c", "KeyC", 'C', "", input.ModifierCtrl},
		{"digit", engine.Key{Key: gpucontext.Key7, Pressed: true}, input.KeyRawDown, "7", "Digit7", '7', "", 0},
		{"f12", engine.Key{Key: gpucontext.KeyF12, Pressed: true}, input.KeyRawDown, "F12", "F12", 123, "", 0},
		{"arrow shift", engine.Key{Key: gpucontext.KeyLeft, Pressed: true, Mods: gpucontext.ModShift}, input.KeyRawDown, "ArrowLeft", "ArrowLeft", 37, "", input.ModifierShift},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &inputState{pressed: input.None}
			p := keyParams(t, s, tt.ev)
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, tt.key, p.Key)
			assert.Equal(t, tt.code, p.Code)
			assert.Equal(t, tt.vk, p.WindowsVirtualKeyCode)
			assert.Equal(t, tt.text, p.Text)
			assert.Equal(t, tt.modMask, p.Modifiers)
		})
	}
}

func TestTranslateUnknownKey(t *testing.T) {
	s := &inputState{pressed: input.None}
	assert.Nil(t, s.translate(engine.Key{Key: gpucontext.KeyUnknown, Pressed: true}))
}

func TestTranslateText(t *testing.T) {
	s := &inputState{pressed: input.None}
	actions := s.translate(engine.TextInput{Text: "héllo"})
	require.Len(t, actions, 1)
	p, ok := actions[0].(*input.InsertTextParams)
	require.True(t, ok)
	assert.Equal(t, "héllo", p.Text)

	assert.Nil(t, s.translate(engine.TextInput{}))
	assert.Nil(t, s.translate(engine.Resize{Width: 1, Height: 1}))
}

func TestModifiers(t *testing.T) {
	all := gpucontext.ModShift | gpucontext.ModControl | gpucontext.ModAlt | gpucontext.ModSuper
	assert.Equal(t, input.ModifierAlt|input.ModifierCtrl|input.ModifierMeta|input.ModifierShift, modifiers(all))
	assert.Equal(t, input.ModifierNone, modifiers(0))
}

func TestMouseButtonMapping(t *testing.T) {
	assert.Equal(t, input.Right, mouseButton(gpucontext.MouseButtonRight))
	assert.Equal(t, input.Middle, mouseButton(gpucontext.MouseButtonMiddle))
	assert.Equal(t, input.Back, mouseButton(gpucontext.MouseButton4))
	assert.Equal(t, input.Forward, mouseButton(gpucontext.MouseButton5))
}
