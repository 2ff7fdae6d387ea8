// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ecs

import (
	"fmt"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/gogpu/websurface"
	"github.com/gogpu/websurface/pass"
)

// SurfaceData links an entity to a driver surface.
type SurfaceData struct {
	ID websurface.SurfaceID
}

// URLData is the page an entity's surface should show.
type URLData struct {
	Value string
}

// SizeData is the requested surface size in pixels.
type SizeData struct {
	Width, Height uint32
}

// Components.
var (
	Surface  = donburi.NewComponentType[SurfaceData]()
	URL      = donburi.NewComponentType[URLData]()
	Size     = donburi.NewComponentType[SizeData]()
	Material = donburi.NewComponentType[pass.Material]()
)

// SurfaceReady is published when a surface gets a new texture, on first
// setup and after every resize.
type SurfaceReady struct {
	Entity   donburi.Entity
	ID       websurface.SurfaceID
	Material pass.Material
}

// SurfaceReadyEvent is the Donburi event type for SurfaceReady.
var SurfaceReadyEvent = events.NewEventType[SurfaceReady]()

// applied is what the bridge last sent to, or saw from, the driver.
type applied struct {
	url      URLData
	size     SizeData
	material pass.Material
}

// Bridge synchronizes surface entities with a Driver. It must be used on
// the driver's goroutine.
type Bridge struct {
	world  donburi.World
	driver *websurface.Driver
	last   map[websurface.SurfaceID]*applied
}

// NewBridge returns a bridge between world and d.
func NewBridge(world donburi.World, d *websurface.Driver) *Bridge {
	return &Bridge{
		world:  world,
		driver: d,
		last:   make(map[websurface.SurfaceID]*applied),
	}
}

// Spawn adds a surface to the driver and creates its entity.
func (b *Bridge) Spawn(cfg websurface.SurfaceConfig) (donburi.Entity, error) {
	id, err := b.driver.AddSurface(cfg)
	if err != nil {
		return 0, fmt.Errorf("ecs: spawn surface: %w", err)
	}
	s := b.driver.Surface(id)
	w, h := s.State().Dimensions()

	e := b.world.Create(Surface, URL, Size, Material)
	entry := b.world.Entry(e)
	Surface.SetValue(entry, SurfaceData{ID: id})
	URL.SetValue(entry, URLData{Value: cfg.URL})
	Size.SetValue(entry, SizeData{Width: w, Height: h})

	b.last[id] = &applied{
		url:  URLData{Value: cfg.URL},
		size: SizeData{Width: w, Height: h},
	}
	return e, nil
}

// Sync sends changed URL and Size components to the driver. Unchanged
// components produce no request, so each change is navigated once.
func (b *Bridge) Sync() {
	Surface.Each(b.world, func(entry *donburi.Entry) {
		id := Surface.Get(entry).ID
		last, ok := b.last[id]
		if !ok {
			return
		}
		if entry.HasComponent(URL) {
			if u := *URL.Get(entry); u != last.url {
				if err := b.driver.SetURL(id, u.Value); err == nil {
					last.url = u
				}
			}
		}
		if entry.HasComponent(Size) {
			if sz := *Size.Get(entry); sz != last.size {
				if err := b.driver.SetSize(id, sz.Width, sz.Height); err == nil {
					last.size = sz
				}
			}
		}
	})
}

// Publish copies every surface material into its entity and publishes
// SurfaceReady for those whose texture changed. Sizes the driver changed
// on its own, e.g. by tracking the window, are written back to Size.
func (b *Bridge) Publish() {
	Surface.Each(b.world, func(entry *donburi.Entry) {
		id := Surface.Get(entry).ID
		s := b.driver.Surface(id)
		last, ok := b.last[id]
		if s == nil || !ok {
			return
		}

		if !s.PendingSize().Dirty && entry.HasComponent(Size) {
			w, h := s.State().Dimensions()
			cur := SizeData{Width: w, Height: h}
			if cur != last.size {
				Size.SetValue(entry, cur)
				last.size = cur
			}
		}

		m := s.Material()
		if entry.HasComponent(Material) {
			Material.SetValue(entry, m)
		}
		if m == last.material || !s.Framebuffer().HasFramebuffer() {
			return
		}
		last.material = m
		SurfaceReadyEvent.Publish(b.world, SurfaceReady{Entity: entry.Entity(), ID: id, Material: m})
	})
}

// Despawn removes e from the world. The driver surface stays allocated
// until the driver is closed.
func (b *Bridge) Despawn(e donburi.Entity) {
	if !b.world.Valid(e) {
		return
	}
	entry := b.world.Entry(e)
	if entry.HasComponent(Surface) {
		delete(b.last, Surface.Get(entry).ID)
	}
	b.world.Remove(e)
}
