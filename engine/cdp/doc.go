// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cdp implements engine.Engine on top of headless Chromium, driven
// through the Chrome DevTools Protocol with chromedp.
//
// Each browsing context is a browser tab. A worker goroutine owns the
// browser connection: it executes navigation and input commands, keeps the
// viewport in sync with the surface size and captures frames after every
// change and on a fixed interval. Captured frames are handed to the host
// by waking its loop; the next HandleEvents call on the driver goroutine
// composites the latest frame into the surface through the Window.
//
// Importing the package registers the engine as "cdp":
//
//	import _ "github.com/gogpu/websurface/engine/cdp"
package cdp
