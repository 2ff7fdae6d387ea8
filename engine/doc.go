// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package engine drives an embedded browser engine for one surface.
//
// An [Engine] is an opaque handle: it consumes batches of [Event] values
// and renders through the [Window] callbacks it was built with. A
// [Session] binds one engine to one browsing context and offers
// navigation and event pumping on top of it.
//
// Engines are registered by name, following the pattern of database/sql
// drivers:
//
//	import _ "github.com/gogpu/websurface/engine/cdp"
//
//	factory := engine.Get("cdp")
//	s, err := engine.Start(ctx, factory, win, "https://servo.org", engine.Options{})
//
// Window callbacks may arrive on engine goroutines. They are the only
// re-entry points into the surface core, so Pump must never be called
// while the caller holds a lock that those callbacks need.
package engine
