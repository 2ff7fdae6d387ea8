package websurface

import (
	"github.com/google/uuid"

	"github.com/gogpu/websurface/engine"
	"github.com/gogpu/websurface/fbo"
	"github.com/gogpu/websurface/pass"
	"github.com/gogpu/websurface/state"
)

// SurfaceID identifies a surface for the lifetime of a Driver.
type SurfaceID = uuid.UUID

// URL is a pending navigation request. Dirty is set by the host and
// cleared by the next tick.
type URL struct {
	Value string
	Dirty bool
}

// Size is a pending resize request.
type Size struct {
	Width, Height uint32
	Dirty         bool
}

// Phase is the engine lifecycle of a surface.
type Phase uint8

const (
	// PhaseUninitialized means no engine session exists yet.
	PhaseUninitialized Phase = iota
	// PhaseActive means the surface owns a running session.
	PhaseActive
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// SurfaceConfig describes a surface to add.
type SurfaceConfig struct {
	// Name is an optional label used in logs.
	Name string
	// URL is the initial document. Empty defers engine start until SetURL.
	URL string
	// Width and Height default to state.DefaultWidth and DefaultHeight.
	Width, Height uint32
	// TrackWindow makes window resizes resize the surface.
	TrackWindow bool
}

// Surface is one browser-backed texture.
type Surface struct {
	id    SurfaceID
	name  string
	track bool

	url  URL
	size Size

	phase   Phase
	session *engine.Session
	state   *state.Surface
	fbo     *fbo.Manager
	win     *surfaceWindow

	texture  fbo.TextureID
	material pass.Material
}

// ID returns the surface ID.
func (s *Surface) ID() SurfaceID { return s.id }

// Name returns the configured name.
func (s *Surface) Name() string { return s.name }

// Phase returns the engine lifecycle phase.
func (s *Surface) Phase() Phase { return s.phase }

// Session returns the engine session, or nil before the first navigation.
func (s *Surface) Session() *engine.Session { return s.session }

// Texture returns the current render target texture.
func (s *Surface) Texture() fbo.TextureID { return s.texture }

// Material returns the material that samples the surface texture.
func (s *Surface) Material() pass.Material { return s.material }

// State returns the shared surface state.
func (s *Surface) State() *state.Surface { return s.state }

// Framebuffer returns the framebuffer manager.
func (s *Surface) Framebuffer() *fbo.Manager { return s.fbo }

// PendingURL returns the current URL request.
func (s *Surface) PendingURL() URL { return s.url }

// PendingSize returns the current size request.
func (s *Surface) PendingSize() Size { return s.size }

func (s *Surface) label() string {
	if s.name != "" {
		return s.name
	}
	return s.id.String()
}
