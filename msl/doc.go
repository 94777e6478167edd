// Package msl implements Metal Shading Language (MSL) code generation for
// shader graphs.
//
// MSL is Apple's shader language for the Metal graphics API. It is based on C++14
// with extensions for GPU programming, including explicit address spaces, attribute-based
// parameter binding, and a metal:: namespace for standard library functions.
//
// # Usage
//
//	source, info, err := msl.Compile(script, msl.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	// info.EntryPoint is "vertex_main" or "fragment_main"
//
// # Type Mapping
//
// Value types map to MSL as follows:
//
//	IR             MSL
//	--             ---
//	bool           bool
//	i32            int
//	u32            uint
//	f32            float
//	vec3<f32>      metal::float3
//	mat4x4<f32>    metal::float4x4
//	texture_2d     metal::texture2d<float, metal::access::sample>
//
// Three component uniform members followed by a scalar are declared with
// packed types so the block layout matches other targets.
//
// # Entry Points
//
// Location inputs are gathered in a [[stage_in]] struct. Built-in inputs,
// uniform blocks (constant references), textures and samplers are entry
// point parameters with [[vertex_id]], [[buffer(N)]], [[texture(N)]] and
// similar attributes. Outputs are returned in a struct carrying
// [[position]], [[user(locnN)]] or [[color(N)]] attributes.
package msl
