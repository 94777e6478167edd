// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import "strings"

// keywords contains WGSL keywords and predeclared type names.
var keywords = map[string]struct{}{
	"alias": {}, "break": {}, "case": {}, "const": {}, "const_assert": {},
	"continue": {}, "continuing": {}, "default": {}, "diagnostic": {},
	"discard": {}, "else": {}, "enable": {}, "false": {}, "fn": {}, "for": {},
	"if": {}, "let": {}, "loop": {}, "override": {}, "requires": {},
	"return": {}, "struct": {}, "switch": {}, "true": {}, "var": {},
	"while": {},

	// Types
	"bool": {}, "f16": {}, "f32": {}, "i32": {}, "u32": {},
	"vec2": {}, "vec3": {}, "vec4": {},
	"mat2x2": {}, "mat2x3": {}, "mat2x4": {},
	"mat3x2": {}, "mat3x3": {}, "mat3x4": {},
	"mat4x2": {}, "mat4x3": {}, "mat4x4": {},
	"array": {}, "atomic": {}, "ptr": {},
	"sampler": {}, "sampler_comparison": {},
	"texture_1d": {}, "texture_2d": {}, "texture_2d_array": {}, "texture_3d": {},
	"texture_cube": {}, "texture_cube_array": {}, "texture_multisampled_2d": {},
	"texture_storage_1d": {}, "texture_storage_2d": {},
	"texture_storage_2d_array": {}, "texture_storage_3d": {},
	"texture_depth_2d": {}, "texture_depth_2d_array": {}, "texture_depth_cube": {},
	"texture_depth_cube_array": {}, "texture_depth_multisampled_2d": {},
}

// reservedWords are reserved for future use by WGSL.
var reservedWords = map[string]struct{}{
	"NULL": {}, "Self": {}, "abstract": {}, "active": {}, "alignas": {},
	"alignof": {}, "as": {}, "asm": {}, "asm_fragment": {}, "async": {},
	"attribute": {}, "auto": {}, "await": {}, "become": {}, "binding_array": {},
	"cast": {}, "catch": {}, "class": {}, "co_await": {}, "co_return": {},
	"co_yield": {}, "coherent": {}, "column_major": {}, "common": {},
	"compile": {}, "compile_fragment": {}, "concept": {}, "const_cast": {},
	"consteval": {}, "constexpr": {}, "constinit": {}, "crate": {},
	"debugger": {}, "decltype": {}, "delete": {}, "demote": {},
	"demote_to_helper": {}, "do": {}, "dynamic_cast": {}, "enum": {},
	"explicit": {}, "export": {}, "extends": {}, "extern": {}, "external": {},
	"fallthrough": {}, "filter": {}, "final": {}, "finally": {}, "friend": {},
	"from": {}, "fxgroup": {}, "get": {}, "goto": {}, "groupshared": {},
	"highp": {}, "impl": {}, "implements": {}, "import": {}, "inline": {},
	"instanceof": {}, "interface": {}, "layout": {}, "lowp": {}, "macro": {},
	"macro_rules": {}, "match": {}, "mediump": {}, "meta": {}, "mod": {},
	"module": {}, "move": {}, "mut": {}, "mutable": {}, "namespace": {},
	"new": {}, "nil": {}, "noexcept": {}, "noinline": {}, "nointerpolation": {},
	"noperspective": {}, "null": {}, "nullptr": {}, "of": {}, "operator": {},
	"package": {}, "packoffset": {}, "partition": {}, "pass": {}, "patch": {},
	"pixelfragment": {}, "precise": {}, "precision": {}, "premerge": {},
	"priv": {}, "protected": {}, "pub": {}, "public": {}, "readonly": {},
	"ref": {}, "regardless": {}, "register": {}, "reinterpret_cast": {},
	"require": {}, "resource": {}, "restrict": {}, "self": {}, "set": {},
	"shared": {}, "sizeof": {}, "smooth": {}, "snorm": {}, "static": {},
	"static_assert": {}, "static_cast": {}, "std": {}, "subroutine": {},
	"super": {}, "target": {}, "template": {}, "this": {}, "thread_local": {},
	"throw": {}, "trait": {}, "try": {}, "type": {}, "typedef": {}, "typeid": {},
	"typename": {}, "typeof": {}, "union": {}, "unless": {}, "unorm": {},
	"unsafe": {}, "unsized": {}, "use": {}, "using": {}, "varying": {},
	"virtual": {}, "volatile": {}, "wgsl": {}, "where": {}, "with": {},
	"writeonly": {}, "yield": {},
}

// builtinFunctions are the predeclared functions the writer calls. A let
// with the same name would shadow them for later statements.
var builtinFunctions = map[string]struct{}{
	"abs": {}, "ceil": {}, "clamp": {}, "cos": {}, "cross": {}, "distance": {},
	"dot": {}, "exp": {}, "floor": {}, "fract": {}, "inverseSqrt": {},
	"length": {}, "log": {}, "max": {}, "min": {}, "mix": {}, "normalize": {},
	"pow": {}, "reflect": {}, "saturate": {}, "sin": {}, "smoothstep": {},
	"sqrt": {}, "step": {}, "tan": {}, "textureSample": {},
	"textureSampleLevel": {}, "select": {}, "all": {}, "any": {},
}

// typeAliases are the predeclared short type names such as vec3f.
var typeAliases = func() map[string]struct{} {
	result := make(map[string]struct{})
	for _, suffix := range []string{"f", "h", "i", "u"} {
		for n := 2; n <= 4; n++ {
			result["vec"+string(rune('0'+n))+suffix] = struct{}{}
		}
		if suffix == "f" || suffix == "h" {
			for c := 2; c <= 4; c++ {
				for r := 2; r <= 4; r++ {
					result["mat"+string(rune('0'+c))+"x"+string(rune('0'+r))+suffix] = struct{}{}
				}
			}
		}
	}
	return result
}()

// IsReserved reports whether name cannot be declared in WGSL. Names
// starting with two underscores are reserved as well.
func IsReserved(name string) bool {
	if strings.HasPrefix(name, "__") || name == "_" {
		return true
	}
	for _, set := range []map[string]struct{}{keywords, reservedWords, builtinFunctions, typeAliases, interfaceNames} {
		if _, ok := set[name]; ok {
			return true
		}
	}
	return false
}

// interfaceNames are the struct and variable names the writer declares.
var interfaceNames = map[string]struct{}{
	"VertexInput": {}, "VertexOutput": {}, "FragmentInput": {}, "FragmentOutput": {},
	inputVar: {}, outputVar: {},
}
