// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl provides a GLSL (OpenGL Shading Language) backend for
// shader graphs.
//
// This package lowers an ir.Script and prints a complete vertex or
// fragment shader. It supports multiple GLSL versions for different
// target platforms:
//
//   - GLSL ES 3.00: WebGL 2.0, Mobile OpenGL ES 3.0
//   - GLSL 3.30 Core: Desktop OpenGL 3.3+
//   - GLSL ES 3.10 and GLSL 4.20+: explicit layout bindings
//
// # Basic Usage
//
//	source, info, err := glsl.Compile(script, glsl.Options{
//	    LangVersion: glsl.Version330,
//	})
//
// # Texture/Sampler Handling
//
// Shader graphs pair every texture with a sampler, but GLSL combines them.
// Each texture resource becomes one sampler2D uniform.
//
// # Reserved Words
//
// GLSL has over 500 reserved words (including future reserved).
// Conflicting identifiers are prefixed with an underscore.
package glsl
