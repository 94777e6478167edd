package hlsl

import (
	"runtime"
	"testing"

	"github.com/gogpu/shadergraph/internal/graphtest"
	"github.com/gogpu/shadergraph/ir"
)

// hlslBenchShaders lists the scripts used by HLSL backend benchmarks.
var hlslBenchShaders = []struct {
	name  string
	build func(testing.TB) *ir.Script
}{
	{"small", graphtest.Add},
	{"medium", graphtest.Textured},
	{"large", graphtest.Lambert},
	{"chain_256", func(tb testing.TB) *ir.Script { return graphtest.Chain(tb, 256) }},
}

// BenchmarkHLSLCompile benchmarks lowering plus HLSL generation.
func BenchmarkHLSLCompile(b *testing.B) {
	for _, bc := range hlslBenchShaders {
		b.Run(bc.name, func(b *testing.B) {
			script := bc.build(b)
			opts := DefaultOptions()

			b.ReportAllocs()
			b.ResetTimer()

			var result string
			for i := 0; i < b.N; i++ {
				var err error
				result, _, err = Compile(script, opts)
				if err != nil {
					b.Fatalf("hlsl emit failed: %v", err)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}

// BenchmarkHLSLShaderModels benchmarks HLSL generation across shader
// models for the same shader.
func BenchmarkHLSLShaderModels(b *testing.B) {
	script := graphtest.Textured(b)

	for _, sm := range []ShaderModel{ShaderModel5_0, ShaderModel5_1, ShaderModel6_0} {
		b.Run(sm.String(), func(b *testing.B) {
			opts := DefaultOptions()
			opts.ShaderModel = sm

			b.ReportAllocs()
			b.ResetTimer()

			var result string
			for i := 0; i < b.N; i++ {
				var err error
				result, _, err = Compile(script, opts)
				if err != nil {
					b.Fatalf("hlsl %s emit failed: %v", sm, err)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}
