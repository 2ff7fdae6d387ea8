// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cdp

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/image/draw"

	"github.com/gogpu/websurface/internal/logging"
)

// capture screenshots the active tab and publishes the frame if the page
// changed since the last capture.
func (e *Engine) capture() {
	if e.active == "" {
		return
	}
	var data []byte
	err := e.do(e.active, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		data, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithFromSurface(true).
			Do(ctx)
		return err
	}))
	if err != nil {
		logging.L().Debug("cdp: capture failed", "context", e.active, "err", err)
		return
	}
	if bytes.Equal(data, e.lastCapture) {
		return
	}
	e.lastCapture = data

	frame, err := decodeFrame(data, e.size)
	if err != nil {
		logging.L().Warn("cdp: decode frame", "err", err)
		return
	}
	e.setFrame(frame)
}

// decodeFrame decodes a PNG screenshot into an RGBA image of the given
// size, scaling when the browser produced a different size (HiDPI, or a
// resize still in flight).
func decodeFrame(data []byte, size image.Point) (*image.RGBA, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cdp: decode png: %w", err)
	}
	src := img.Bounds()
	if size.X <= 0 || size.Y <= 0 {
		size = src.Size()
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	if src.Size() == size {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}
	return dst, nil
}
