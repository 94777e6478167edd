package shadergraph

import (
	"context"
	"runtime"
	"testing"

	"github.com/gogpu/shadergraph/internal/graphtest"
	"github.com/gogpu/shadergraph/ir"
)

// ---------------------------------------------------------------------------
// Test graphs at different complexity levels
// ---------------------------------------------------------------------------

var graphsByComplexity = []struct {
	name  string
	build func(testing.TB) *ir.Script
}{
	{"small", graphtest.Add},
	{"medium", graphtest.Textured},
	{"large", graphtest.Lambert},
	{"chain_1024", func(tb testing.TB) *ir.Script { return graphtest.Chain(tb, 1024) }},
}

// BenchmarkCompile benchmarks validation, lowering and generation for
// every target.
func BenchmarkCompile(b *testing.B) {
	for _, target := range Targets() {
		for _, gc := range graphsByComplexity {
			b.Run(target.String()+"/"+gc.name, func(b *testing.B) {
				script := gc.build(b)
				opts := DefaultOptions()
				opts.Target = target

				b.ReportAllocs()
				b.ResetTimer()

				var result Result
				for i := 0; i < b.N; i++ {
					var err error
					result, err = Compile(script, opts)
					if err != nil {
						b.Fatalf("compile failed: %v", err)
					}
				}
				runtime.KeepAlive(result)
			})
		}
	}
}

// BenchmarkCompileWithoutValidation measures the overhead of the
// validation pass.
func BenchmarkCompileWithoutValidation(b *testing.B) {
	script := graphtest.Chain(b, 1024)
	opts := DefaultOptions()
	opts.Validate = false

	b.ReportAllocs()
	b.ResetTimer()

	var result Result
	for i := 0; i < b.N; i++ {
		var err error
		result, err = Compile(script, opts)
		if err != nil {
			b.Fatalf("compile failed: %v", err)
		}
	}
	runtime.KeepAlive(result)
}

// BenchmarkEvaluateLisp benchmarks the Lisp front-end on a small program.
func BenchmarkEvaluateLisp(b *testing.B) {
	const source = `
(def n (math "normalize" (input "normal" "vec3<f32>" :location 0)))
(def d (math "saturate" (math "dot" n (constant 0 1 0))))
(output "color" (math "extend" (math "compose" d d d)) :location 0)
`
	ctx := context.Background()
	b.ReportAllocs()
	b.SetBytes(int64(len(source)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := EvaluateLisp(ctx, source); err != nil {
			b.Fatalf("evaluate failed: %v", err)
		}
	}
}
