package websurface

import "github.com/gogpu/websurface/fbo"

// TextureLoader allocates GPU textures usable as a material albedo. The
// returned handles are released through the fbo.Device of the same Driver.
type TextureLoader interface {
	// NewTexture allocates an RGBA8 texture. pixels may be nil, leaving
	// the contents undefined; otherwise it holds width*height*4 bytes.
	NewTexture(width, height int, pixels []byte) (fbo.TextureID, error)
}
