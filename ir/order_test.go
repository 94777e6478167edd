package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalOrder(t *testing.T) {
	s := NewScript()
	out := mustNode(t, s, OutputVariable{Name: "o", Type: Float32})
	sub := mustNode(t, s, Operator{Op: OpSub, Left: Float32, Right: Float32})
	a := mustNode(t, s, Constant{Value: Float(3)})
	b := mustNode(t, s, Constant{Value: Float(2)})
	require.NoError(t, s.Connect(Out(sub, 0), In(out, 0)))
	require.NoError(t, s.Connect(Out(b, 0), In(sub, 0)))
	require.NoError(t, s.Connect(Out(a, 0), In(sub, 1)))

	order, err := s.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []NodeHandle{a, b, sub, out}, order)
}

func TestTopologicalOrder_Empty(t *testing.T) {
	order, err := NewScript().TopologicalOrder()
	require.NoError(t, err)
	assert.Empty(t, order)
}
