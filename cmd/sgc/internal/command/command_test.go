package command_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph/cmd/sgc/internal/command"
)

func TestMinArgsWithUsage(t *testing.T) {
	fn := command.MinArgsWithUsage(1)
	assert.NoError(t, fn(nil, []string{"a"}))
	assert.NoError(t, fn(nil, []string{"a", "b"}))
}

func TestMaxArgs(t *testing.T) {
	fn := command.MaxArgs(2)
	assert.NoError(t, fn(nil, []string{"a"}))
	assert.NoError(t, fn(nil, []string{"a", "b"}))

	err := fn(nil, []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected at most 2 arguments, got 3")
}

func TestCompile_Stdout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.yaml", addYAML)

	out, _, err := sgc(t, dir, "", "compile", path)
	require.NoError(t, err)
	assert.Equal(t, addGLSL, out)
}

func TestCompile_OutDir(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.yaml", addYAML)
	outDir := filepath.Join(dir, "out")

	out, _, err := sgc(t, dir, "", "--target", "wgsl", "compile", "-o", outDir, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	source, err := os.ReadFile(filepath.Join(outDir, "add.wgsl"))
	require.NoError(t, err)
	assert.Contains(t, string(source), "@fragment")
}

func TestCompile_ConfigTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.yaml", addYAML)

	out, _, err := sgc(t, dir, "target: hlsl\n", "compile", path)
	require.NoError(t, err)
	assert.Contains(t, out, "float result : SV_Target0")
}

func TestCompile_MemoryCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.yaml", addYAML)

	out, _, err := sgc(t, dir, "cache:\n  dsn: memory\n", "compile", path, path)
	require.NoError(t, err)
	assert.Equal(t, addGLSL+addGLSL, out)
}

func TestCompile_Lisp(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mul.lisp", `(output "o" (binop "mul" 2 4) :location 0)`)

	out, _, err := sgc(t, dir, "", "compile", path)
	require.NoError(t, err)
	assert.Contains(t, out, "out float o;")
}

func TestCompile_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "add.yaml", addYAML)
	bad := writeFile(t, dir, "unbound.yaml", unboundYAML)

	out, errOut, err := sgc(t, dir, "", "compile", good, bad)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 graphs failed to compile", err.Error())
	assert.Equal(t, addGLSL, out)
	assert.Contains(t, errOut, bad)
	assert.Contains(t, errOut, "validation failed")
}

func TestCompile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.json", "{}")

	_, errOut, err := sgc(t, dir, "", "compile", path)
	require.Error(t, err)
	assert.Contains(t, errOut, "unsupported input")
}

func TestCompile_UnknownTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.yaml", addYAML)

	_, _, err := sgc(t, dir, "", "-t", "spirv", "compile", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "spirv"`)
}

func TestCompile_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.yaml", addYAML)
	metrics := filepath.Join(dir, "metrics.prom")

	_, _, err := sgc(t, dir, "", "--metrics-file", metrics, "compile", path)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shadergraph_")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "add.yaml", addYAML)
	bad := writeFile(t, dir, "unbound.yaml", unboundYAML)

	out, _, err := sgc(t, dir, "", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Valid!")

	out, _, err = sgc(t, dir, "", "validate", good, bad)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 graphs are invalid", err.Error())
	assert.Contains(t, out, "Error!")
	assert.Contains(t, out, "UnboundInput")
	assert.Contains(t, out, "has no edge and no default")
}

func TestValidate_SourceContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.yaml", strings.Replace(addYAML, "inputs: [a, b]", "inputs: [a, missing]", 1))

	out, _, err := sgc(t, dir, "", "validate", path)
	require.Error(t, err)
	assert.Contains(t, out, `references unknown node "missing"`)
	assert.Contains(t, out, "- id: sum")
	assert.Contains(t, out, "^")
}

func TestFmt(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mul.lisp", `(output "o" (binop "mul" 2 4) :location 0)`)

	out, _, err := sgc(t, dir, "", "fmt", path)
	require.NoError(t, err)
	assert.Contains(t, out, "version: 1\n")
	assert.Contains(t, out, "name: mul\n")
	assert.Contains(t, out, "op: mul")

	_, _, err = sgc(t, dir, "", "fmt", "-w", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot rewrite .lisp in place")
}

func TestFmt_WriteIsStable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "add.yaml", addYAML)

	out, _, err := sgc(t, dir, "", "fmt", "-l", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, _, err = sgc(t, dir, "", "fmt", "-w", path)
	require.NoError(t, err)

	out, _, err = sgc(t, dir, "", "fmt", "-l", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = sgc(t, dir, "", "compile", path)
	require.NoError(t, err)
	assert.Equal(t, addGLSL, out)
}
