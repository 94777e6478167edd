package ir

import (
	"testing"
)

// buildChain creates n chained sin nodes fed by one input and drained by
// one output.
func buildChain(tb testing.TB, n int) *Script {
	tb.Helper()
	s := NewScript()
	prev, err := s.AddInput("x", Float32, LocationBinding{Location: 0})
	if err != nil {
		tb.Fatal(err)
	}
	for i := 0; i < n; i++ {
		h, err := s.AddFunction(FuncSin, Float32)
		if err != nil {
			tb.Fatal(err)
		}
		if err := s.Connect(Out(prev, 0), In(h, 0)); err != nil {
			tb.Fatal(err)
		}
		prev = h
	}
	out, err := s.AddOutput("y", Float32, LocationBinding{Location: 0})
	if err != nil {
		tb.Fatal(err)
	}
	if err := s.Connect(Out(prev, 0), In(out, 0)); err != nil {
		tb.Fatal(err)
	}
	return s
}

// BenchmarkCreateNode benchmarks allocating function nodes.
func BenchmarkCreateNode(b *testing.B) {
	b.ReportAllocs()
	s := NewScript()
	for i := 0; i < b.N; i++ {
		if _, err := s.AddFunction(FuncMix, Vector4f32); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkConnectChain benchmarks building a 256 node chain, which runs
// the cycle check on every edge.
func BenchmarkConnectChain(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buildChain(b, 256)
	}
}

// BenchmarkCycleRejection benchmarks rejecting a back edge across a long chain.
func BenchmarkCycleRejection(b *testing.B) {
	s := buildChain(b, 512)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Connect(Out(NodeHandle(400), 0), In(NodeHandle(2), 0)); err == nil {
			b.Fatal("expected cycle")
		}
	}
}

// BenchmarkValidate benchmarks validation of a mid-sized graph.
func BenchmarkValidate(b *testing.B) {
	s := buildChain(b, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Validate(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkClone benchmarks deep-copying a graph.
func BenchmarkClone(b *testing.B) {
	s := buildChain(b, 256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Clone()
	}
}
