// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReserved_GeneratedNames(t *testing.T) {
	// Names the writer declares itself must never be reused for locals.
	for _, name := range []string{
		"main", "input", "output",
		"VertexInput", "VertexOutput", "FragmentInput", "FragmentOutput",
	} {
		assert.True(t, IsReserved(name), name)
	}
}

func TestIsReserved(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		// Spellings the dialect emits
		{"cbuffer", true},
		{"register", true},
		{"Texture2D", true},
		{"SamplerState", true},
		{"saturate", true},
		{"lerp", true},
		{"rsqrt", true},
		{"mul", true},
		{"SV_Position", true},

		// Type shorthands for every graph value type
		{"float", true},
		{"int3", true},
		{"uint2", true},
		{"bool4", true},
		{"float4x4", true},

		// Graph names that are free
		{"albedo", false},
		{"uv", false},
		{"light_dir", false},
		{"float5", false},
		{"Input", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsReserved(tt.input))
		})
	}
}

func TestIsCaseInsensitiveReserved(t *testing.T) {
	assert.True(t, IsCaseInsensitiveReserved("technique"))
	assert.True(t, IsCaseInsensitiveReserved("TECHNIQUE"))
	assert.True(t, IsCaseInsensitiveReserved("texture2d"))
	assert.False(t, IsCaseInsensitiveReserved("tint"))
}

func TestDialect_IsReservedEntryPoint(t *testing.T) {
	d := Dialect{EntryPoint: "shade"}
	assert.True(t, d.IsReserved("shade"))
	assert.True(t, d.IsReserved("main"))
	assert.True(t, d.IsReserved("Pass"))
	assert.False(t, d.IsReserved("color"))
}
