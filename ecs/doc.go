// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ecs binds websurface surfaces to entities of a [Donburi] world.
//
// Each surface entity carries a [Surface] component with the driver's
// surface ID plus [URL] and [Size] components. Systems change a page or a
// size by writing those components; [Bridge.Sync] turns the changes into
// driver requests before the driver ticks, and [Bridge.Publish] copies the
// resulting material back and emits [SurfaceReadyEvent] after it.
//
// Usage:
//
//	bridge := ecs.NewBridge(world, driver)
//	e, _ := bridge.Spawn(websurface.SurfaceConfig{URL: "https://servo.org"})
//
//	// every frame
//	bridge.Sync()
//	driver.Tick(ctx)
//	bridge.Publish()
//	ecs.SurfaceReadyEvent.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
