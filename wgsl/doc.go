// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package wgsl provides a WGSL (WebGPU Shading Language) backend for
// shader graphs.
//
// WGSL is the shader language for WebGPU, designed to be portable
// and map well to modern GPU APIs like Vulkan, Metal, and DX12.
//
// # Usage
//
//	source, info, err := wgsl.Compile(script, wgsl.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Resources
//
// Uniform blocks become structs bound as var<uniform>. Every texture is
// paired with a sampler bound in the same group at the texture binding
// plus Options.SamplerBindingOffset.
//
// # Stage Interface
//
// Inputs and outputs are members of the VertexInput/VertexOutput or
// FragmentInput/FragmentOutput structs. Integer varyings are declared
// with @interpolate(flat).
//
// # WGSL Specification
//
// Generated code follows the WGSL specification:
// https://www.w3.org/TR/WGSL/
package wgsl
