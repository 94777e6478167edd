package command

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Changed(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	w := newWatcher([]string{a, b, filepath.Join(dir, "missing.yaml")})
	assert.Equal(t, []string{a, b}, w.changed())
	assert.Empty(t, w.changed())

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(b, later, later))
	assert.Equal(t, []string{b}, w.changed())

	require.NoError(t, os.Remove(a))
	assert.Empty(t, w.changed())
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	assert.Equal(t, []string{a}, w.changed())
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "lambert", outputName("lambert"))
	assert.Equal(t, "a_b", outputName("a/b"))
	assert.Equal(t, "shader", outputName(".."))
	assert.Equal(t, "shader", outputName(""))
}
