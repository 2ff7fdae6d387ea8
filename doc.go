// Package websurface composites browser-engine output into GPU textures.
//
// # Overview
//
// A surface is a rectangle of a host scene, backed by a texture, into which
// an embedded browser engine renders. websurface owns that texture's render
// target: it allocates the framebuffer and depth buffer, rebuilds them on
// resize, and routes host input and window events into the engine.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/websurface"
//	    "github.com/gogpu/websurface/engine"
//	    _ "github.com/gogpu/websurface/engine/cdp"
//	)
//
//	d, err := websurface.NewDriver(websurface.Config{
//	    Device: device, // fbo.Device, e.g. backend/gl
//	    Loader: device, // TextureLoader
//	    Engine: engine.Get("cdp"),
//	})
//	id, err := d.AddSurface(websurface.SurfaceConfig{URL: "https://servo.org", Width: 1024, Height: 768})
//
//	for running {
//	    if err := d.Tick(ctx); err != nil {
//	        log.Fatal(err) // engine could not start
//	    }
//	    // draw d.Surface(id).Material() with the pass package
//	}
//
// # Tick Order
//
// Each [Driver.Tick] handles pending sizes first, then re-binds missing
// framebuffers, then pending URLs, and finally drains the host event queue
// once. Size and URL changes are edge-triggered: [Driver.SetSize] and
// [Driver.SetURL] mark the surface dirty and the next tick consumes the
// change.
//
// # Threads
//
// Tick runs on one goroutine. Engines may call back from their own
// goroutines; those callbacks only touch the lock-guarded state package and
// the [EventQueue].
//
// # Architecture
//
//   - state: shared, poison-tolerant surface state
//   - fbo: framebuffer lifecycle over a GL-shaped Device
//   - engine: engine sessions, events and the engine registry
//   - engine/cdp: headless Chromium engine
//   - backend/gl, backend/hal: Device implementations
//   - pass: the render-pass contract that samples surface textures
//   - config, ecs: host integration
package websurface
