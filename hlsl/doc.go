// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl provides HLSL (High-Level Shading Language) code generation
// for shader graphs.
//
// HLSL is Microsoft's shader language for DirectX. This package generates
// source compatible with both legacy FXC (Shader Model 5.x) and modern
// DXC (Shader Model 6.x) compilers.
//
// # Usage
//
//	options := hlsl.DefaultOptions()
//	options.ShaderModel = hlsl.ShaderModel6_0
//
//	source, info, err := hlsl.Compile(script, options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// compile source with info.Profile, e.g. "ps_6_0"
//
// # Register Binding
//
// HLSL uses register-based resource binding with spaces:
//
//	cbuffer : register(b#, space#)  // Uniform blocks
//	Texture : register(t#, space#)  // Textures
//	Sampler : register(s#, space#)  // Samplers
//
// The BindingMap in Options allows explicit control over register assignment.
// Unmapped bindings use the group as space and the binding as register when
// FakeMissingBindings is set.
//
// # Stage Interface
//
// Inputs and outputs are fields of the VertexInput/VertexOutput or
// FragmentInput/FragmentOutput structs. Locations use LOC# semantics,
// fragment outputs use SV_Target#.
package hlsl
