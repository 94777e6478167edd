package lower

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph/ir"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)

	c := NewCompiler(WithMetrics(m))
	_, err := c.Compile(addScript(t), exprDialect{})
	require.NoError(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.statements.WithLabelValues("variable")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.statements.WithLabelValues("operator")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.compileTime))

	_, err = c.Compile(ir.NewScript(), exprDialect{})
	require.Error(t, err)
	assert.Equal(t, 2, testutil.CollectAndCount(m.compileTime, "shadergraph_lower_compile_duration_seconds"))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCompile(0.1, nil)
		m.countStatements(map[ir.NodeCategory]int{ir.CategoryFunction: 1})
	})
}
