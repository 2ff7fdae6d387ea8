// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pass

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

// BlitShaderWGSL is the WGSL source of the surface quad shader.
// Entry points are vs_main and fs_main. Bindings: 0 transform uniform,
// 1 albedo texture, 2 sampler.
//
//go:embed shaders/blit.wgsl
var BlitShaderWGSL string

// CompileBlitShader compiles BlitShaderWGSL to SPIR-V words.
func CompileBlitShader() ([]uint32, error) {
	return CompileSPIRV(BlitShaderWGSL)
}

// CompileSPIRV compiles WGSL source to little-endian SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("pass: compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("pass: compile shader: %d bytes is not whole words", len(spirvBytes))
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
