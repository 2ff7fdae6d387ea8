// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pass

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/draw"

	"github.com/gogpu/websurface/fbo"
)

// ErrNoTexture is returned when a material's albedo cannot be resolved.
var ErrNoTexture = errors.New("pass: albedo texture not found")

// Resolver maps texture handles to drawable textures.
type Resolver interface {
	Texture(id fbo.TextureID) (gpucontext.Texture, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(id fbo.TextureID) (gpucontext.Texture, bool)

// Texture calls f.
func (f ResolverFunc) Texture(id fbo.TextureID) (gpucontext.Texture, bool) { return f(id) }

// Item is one surface to draw.
type Item struct {
	Material Material
	X, Y     float32
}

// Pass draws surface quads.
type Pass struct {
	resolver Resolver
}

// New creates a pass that resolves albedo handles with r.
func New(r Resolver) *Pass {
	return &Pass{resolver: r}
}

// Draw blits every item's albedo through drawer. Items without an albedo
// are skipped; the first resolution or draw failure is returned after all
// items have been attempted.
func (p *Pass) Draw(drawer gpucontext.TextureDrawer, items ...Item) error {
	var errs []error
	for _, it := range items {
		if !it.Material.HasAlbedo() {
			continue
		}
		tex, ok := p.resolver.Texture(it.Material.Albedo)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %d", ErrNoTexture, it.Material.Albedo))
			continue
		}
		if err := drawer.DrawTexture(tex, it.X, it.Y); err != nil {
			errs = append(errs, fmt.Errorf("pass: draw texture %d: %w", it.Material.Albedo, err))
		}
	}
	return errors.Join(errs...)
}

// Blit draws src scaled into r of dst on the CPU using the material blend.
func Blit(dst draw.Image, r image.Rectangle, src image.Image, m Material) {
	op := draw.Over
	if m.Blend == BlendReplace {
		op = draw.Src
	}
	if r.Size() == src.Bounds().Size() {
		draw.Draw(dst, r, src, src.Bounds().Min, op)
		return
	}
	draw.ApproxBiLinear.Scale(dst, r, src, src.Bounds(), op, nil)
}
