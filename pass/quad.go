// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pass

// Vertex is a position with a texture coordinate.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
}

// VertexStride is the size of a Vertex in bytes.
const VertexStride = 5 * 4

// Quad returns the two triangles of the unit quad on the XY plane, with
// (0,0) at the bottom-left corner.
func Quad() [6]Vertex {
	return [6]Vertex{
		{Position: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{1, 1, 0}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{1, 0, 0}, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{1, 0, 0}, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{0, 0, 0}, TexCoord: [2]float32{0, 0}},
	}
}
