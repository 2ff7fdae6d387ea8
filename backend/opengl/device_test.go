// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package opengl

import (
	"errors"
	"testing"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/stretchr/testify/assert"

	"github.com/gogpu/websurface/fbo"
)

func TestGLErr(t *testing.T) {
	assert.NoError(t, glErr(gl.NO_ERROR, "op"))

	err := glErr(gl.OUT_OF_MEMORY, "opengl: renderbuffer storage")
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.EqualError(t, err, "opengl: renderbuffer storage: opengl: GL_OUT_OF_MEMORY")

	var code Error
	assert.True(t, errors.As(glErr(gl.INVALID_VALUE, "op"), &code))
	assert.Equal(t, Error(gl.INVALID_VALUE), code)
	assert.NotErrorIs(t, code, ErrOutOfMemory)
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		code Error
		want string
	}{
		{gl.INVALID_ENUM, "opengl: GL_INVALID_ENUM"},
		{gl.INVALID_OPERATION, "opengl: GL_INVALID_OPERATION"},
		{gl.INVALID_FRAMEBUFFER_OPERATION, "opengl: GL_INVALID_FRAMEBUFFER_OPERATION"},
		{0x1234, "opengl: GL error 0x1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.Error())
	}
}

func TestDebugMarkersSupported(t *testing.T) {
	assert.False(t, debugMarkersSupported(3, 3))
	assert.False(t, debugMarkersSupported(4, 2))
	assert.True(t, debugMarkersSupported(4, 3))
	assert.True(t, debugMarkersSupported(4, 6))
	assert.True(t, debugMarkersSupported(5, 0))
}

type foreignTexture struct{}

func (foreignTexture) Width() int { return 1 }
func (foreignTexture) Height() int { return 1 }

func TestUnknownTexturesNeedNoContext(t *testing.T) {
	d := &Device{textures: make(map[fbo.TextureID]*Texture)}

	assert.ErrorIs(t, d.DrawTexture(foreignTexture{}, 0, 0), ErrUnknownTexture)
	assert.ErrorIs(t, d.TexSubImage2D(7, 1, 1, make([]byte, 4)), ErrUnknownTexture)
	_, ok := d.Texture(7)
	assert.False(t, ok)
	d.DeleteTexture(7)

	stale := &Texture{dev: d, id: 9, width: 1, height: 1}
	assert.ErrorIs(t, d.DrawTexture(stale, 0, 0), ErrUnknownTexture)

	d.textures[9] = stale
	assert.ErrorContains(t, d.TexSubImage2D(9, 2, 2, make([]byte, 16)), "exceeds texture")
	assert.ErrorContains(t, stale.UpdateData(nil), "needs 4 bytes")
}
