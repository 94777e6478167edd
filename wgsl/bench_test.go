package wgsl

import (
	"runtime"
	"testing"

	"github.com/gogpu/shadergraph/internal/graphtest"
	"github.com/gogpu/shadergraph/ir"
)

// wgslBenchShaders lists the scripts used by WGSL backend benchmarks.
var wgslBenchShaders = []struct {
	name  string
	build func(testing.TB) *ir.Script
}{
	{"small", graphtest.Add},
	{"medium", graphtest.Textured},
	{"large", graphtest.Lambert},
	{"chain_256", func(tb testing.TB) *ir.Script { return graphtest.Chain(tb, 256) }},
}

// BenchmarkWGSLCompile benchmarks lowering plus WGSL generation.
func BenchmarkWGSLCompile(b *testing.B) {
	for _, bc := range wgslBenchShaders {
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
					b.Fatalf("wgsl emit failed: %v", err)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}

// BenchmarkWGSLEntryPoints benchmarks generation for both stages.
func BenchmarkWGSLEntryPoints(b *testing.B) {
	for _, bc := range []struct {
		name  string
		build func(testing.TB) *ir.Script
	}{
		{"vertex", graphtest.Transform},
		{"fragment", graphtest.Textured},
	} {
		b.Run(bc.name, func(b *testing.B) {
			script := bc.build(b)
			opts := DefaultOptions()

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, _, err := Compile(script, opts); err != nil {
					b.Fatalf("wgsl %s emit failed: %v", bc.name, err)
				}
			}
		})
	}
}
