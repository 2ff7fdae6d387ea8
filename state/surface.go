// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package state

// Default surface size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 1024
)

// TextureID names a GPU texture. Zero is never a valid texture.
type TextureID uint32

// FramebufferID names a framebuffer object. Zero is the default framebuffer.
type FramebufferID uint32

// RenderbufferID names a renderbuffer object. Zero unbinds.
type RenderbufferID uint32

// Dimensions is a surface size in pixels.
type Dimensions struct {
	Width, Height uint32
}

// Valid reports whether both sides are non-zero.
func (d Dimensions) Valid() bool { return d.Width > 0 && d.Height > 0 }

// Target is the texture bound as a surface's render target.
type Target struct {
	ID    TextureID
	Valid bool
}

// Buffers is a framebuffer with its depth renderbuffer. The zero value
// means nothing is allocated.
type Buffers struct {
	Framebuffer FramebufferID
	DepthBuffer RenderbufferID
}

// Allocated reports whether b holds a framebuffer.
func (b Buffers) Allocated() bool { return b.Framebuffer != 0 }

// Surface is the shared state of one surface: dimensions, target binding
// and framebuffer resources. It is safe for concurrent use.
type Surface struct {
	dims    *Cell[Dimensions]
	target  *Cell[Target]
	buffers *Cell[Buffers]
}

// New returns a surface state with the default 1024x1024 dimensions.
func New() *Surface {
	return NewWithDimensions(DefaultWidth, DefaultHeight)
}

// NewWithDimensions returns a surface state with the given dimensions.
func NewWithDimensions(width, height uint32) *Surface {
	return &Surface{
		dims:    NewCell("dimensions", Dimensions{Width: width, Height: height}),
		target:  NewCell("target", Target{}),
		buffers: NewCell("buffers", Buffers{}),
	}
}

// Dimensions returns the current width and height.
func (s *Surface) Dimensions() (width, height uint32) {
	d := s.dims.Load()
	return d.Width, d.Height
}

// SetDimensions stores a new size.
func (s *Surface) SetDimensions(width, height uint32) {
	_ = s.dims.Update(func(d *Dimensions) {
		d.Width, d.Height = width, height
	})
}

// DimensionsCell exposes the underlying cell for diagnostics.
func (s *Surface) DimensionsCell() *Cell[Dimensions] { return s.dims }

// SetTarget binds id as the render target.
func (s *Surface) SetTarget(id TextureID) {
	s.ReplaceTarget(id)
}

// ReplaceTarget binds id and returns the previous binding.
func (s *Surface) ReplaceTarget(id TextureID) Target {
	var prev Target
	_ = s.target.Update(func(t *Target) {
		prev = *t
		*t = Target{ID: id, Valid: true}
	})
	return prev
}

// RestoreTarget puts back a binding previously returned by ReplaceTarget.
func (s *Surface) RestoreTarget(t Target) {
	_ = s.target.Update(func(cur *Target) { *cur = t })
}

// RemoveTarget clears the binding.
func (s *Surface) RemoveTarget() {
	_ = s.target.Update(func(t *Target) { *t = Target{} })
}

// HasTarget reports whether a render target is bound.
func (s *Surface) HasTarget() bool {
	return s.target.Load().Valid
}

// Target returns the bound texture, if any.
func (s *Surface) Target() (TextureID, bool) {
	t := s.target.Load()
	return t.ID, t.Valid
}

// Buffers returns the allocated framebuffer resources, if any.
func (s *Surface) Buffers() (Buffers, bool) {
	b := s.buffers.Load()
	return b, b.Allocated()
}

// TakeBuffers removes and returns the allocated framebuffer resources.
// The caller becomes responsible for deleting them.
func (s *Surface) TakeBuffers() (Buffers, bool) {
	var out Buffers
	_ = s.buffers.Update(func(b *Buffers) {
		out = *b
		*b = Buffers{}
	})
	return out, out.Allocated()
}

// CommitBuffers stores newly allocated resources. It refuses with
// ErrPoisoned when the buffers cell is poisoned; the caller still owns b
// in that case.
func (s *Surface) CommitBuffers(b Buffers) error {
	return s.buffers.TryUpdate(func(cur *Buffers) { *cur = b })
}

// BuffersCell exposes the underlying cell for diagnostics.
func (s *Surface) BuffersCell() *Cell[Buffers] { return s.buffers }
