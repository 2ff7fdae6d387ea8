// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cdp

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeFrameSameSize(t *testing.T) {
	data := encodePNG(t, 8, 4, color.NRGBA{R: 255, A: 255})
	frame, err := decodeFrame(data, image.Pt(8, 4))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), frame.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, frame.RGBAAt(3, 2))
}

func TestDecodeFrameScales(t *testing.T) {
	data := encodePNG(t, 16, 16, color.NRGBA{G: 255, A: 255})
	frame, err := decodeFrame(data, image.Pt(8, 8))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), frame.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, frame.RGBAAt(4, 4))
}

func TestDecodeFrameNoSize(t *testing.T) {
	data := encodePNG(t, 5, 3, color.NRGBA{B: 255, A: 255})
	frame, err := decodeFrame(data, image.Point{})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 3), frame.Bounds())
}

func TestDecodeFrameInvalid(t *testing.T) {
	_, err := decodeFrame([]byte("not png"), image.Pt(1, 1))
	assert.Error(t, err)
}
