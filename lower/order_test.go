package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph/ir"
)

func TestTopoOrder(t *testing.T) {
	s := ir.NewScript()
	out := must(t)(s.AddOutput("o", ir.Float32, nil))
	mul := must(t)(s.AddOperator(ir.OpMul, ir.Float32, ir.Float32))
	b := must(t)(s.AddConstant(ir.Float(2)))
	a := must(t)(s.AddConstant(ir.Float(1)))
	unrelated := must(t)(s.AddConstant(ir.Float(9)))
	connect(t, s, a, 0, mul, 0)
	connect(t, s, b, 0, mul, 1)
	connect(t, s, mul, 0, out, 0)

	order, err := topoOrder(s)
	require.NoError(t, err)
	assert.Equal(t, []ir.NodeHandle{b, a, mul, out, unrelated}, order)

	pos := make(map[ir.NodeHandle]int)
	for i, h := range order {
		pos[h] = i
	}
	for _, e := range s.Edges() {
		assert.Less(t, pos[e.From.Node], pos[e.To.Node], "%s", e)
	}
}

func TestTopoOrder_SkipsRemovedNodes(t *testing.T) {
	s := ir.NewScript()
	a := must(t)(s.AddConstant(ir.Float(1)))
	gone := must(t)(s.AddConstant(ir.Float(2)))
	out := must(t)(s.AddOutput("o", ir.Float32, nil))
	connect(t, s, gone, 0, out, 0)
	require.NoError(t, s.RemoveNode(gone))

	order, err := topoOrder(s)
	require.NoError(t, err)
	assert.Equal(t, []ir.NodeHandle{a, out}, order)
}

func TestLiveSet(t *testing.T) {
	s := ir.NewScript()
	x := must(t)(s.AddInput("x", ir.Float32, nil))
	sin := must(t)(s.AddFunction(ir.FuncSin, ir.Float32))
	cos := must(t)(s.AddFunction(ir.FuncCos, ir.Float32))
	out := must(t)(s.AddOutput("o", ir.Float32, nil))
	connect(t, s, x, 0, sin, 0)
	connect(t, s, x, 0, cos, 0)
	connect(t, s, sin, 0, out, 0)

	live := liveSet(s)
	assert.True(t, live[x])
	assert.True(t, live[sin])
	assert.True(t, live[out])
	assert.False(t, live[cos])
}
