package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"color", "color"},
		{"base color", "base_color"},
		{"a__b", "a_b"},
		{"__x", "x"},
		{"trail_", "trail"},
		{"2d", "v2d"},
		{"ünï", "n"},
		{"", "unnamed"},
		{"---", "unnamed"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}

func TestNamer(t *testing.T) {
	n := newNamer(func(s string) bool { return s == "main" || s == "x_1" })

	assert.Equal(t, "a", n.call("a"))
	assert.Equal(t, "a_1", n.call("a"))
	assert.Equal(t, "a_2", n.call("a"))
	assert.Equal(t, "_main", n.call("main"))
	assert.Equal(t, "_main_1", n.call("main"))

	assert.Equal(t, "x", n.call("x"))
	assert.Equal(t, "x_2", n.call("x"), "reserved candidates are skipped")

	assert.Equal(t, "b_1", n.call("b_1"))
	assert.Equal(t, "b", n.call("b"))
	assert.Equal(t, "b_2", n.call("b"), "suffixes never collide with declared names")
}
