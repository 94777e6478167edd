package command_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph/cmd/sgc/internal/command"
)

const addYAML = `version: 1
name: add
nodes:
  - id: a
    constant: {value: 2}
  - id: b
    constant: {value: 3}
  - id: sum
    operator: {op: add}
    inputs: [a, b]
  - id: result
    output: {name: result}
    inputs: [sum]
`

const addGLSL = `#version 330 core

layout(location = 0) out float result;

void main() {
    float _const = 2.0;
    float _const_1 = 3.0;
    float add = (_const + _const_1);
    result = add;
}
`

// unboundYAML has an operator with no right operand.
const unboundYAML = `version: 1
nodes:
  - id: a
    constant: {value: 2}
  - id: sum
    operator: {op: add}
    inputs: [a]
  - id: result
    output: {name: result}
    inputs: [sum]
`

// sgc runs the CLI with a fresh configuration file in dir.
func sgc(t *testing.T, dir, config string, args ...string) (string, string, error) {
	t.Helper()
	for _, key := range []string{"SGC_TARGET", "SGC_OUT_DIR", "SGC_CACHE_DSN", "MQTT_URL", "SGC_LOG"} {
		t.Setenv(key, "")
	}
	cfgPath := filepath.Join(dir, "sgc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version: 1\n"+config), 0o644))

	var out, errOut bytes.Buffer
	cli := command.NewCLI(&out, &errOut)
	root := command.NewRootCommand(cli, &command.GlobalOptions{})
	command.AddCommands(root, cli)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewRootCommand(t *testing.T) {
	cmd := command.NewRootCommand(command.NewCLI(&bytes.Buffer{}, &bytes.Buffer{}), &command.GlobalOptions{})

	assert.Equal(t, "sgc", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Version)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.CompletionOptions.DisableDefaultCmd)

	flag := cmd.PersistentFlags().Lookup("target")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
	assert.Equal(t, flag, cmd.PersistentFlags().ShorthandLookup("t"))

	flag = cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "sgc.yaml", flag.DefValue)
}

func TestAddCommands(t *testing.T) {
	cli := command.NewCLI(&bytes.Buffer{}, &bytes.Buffer{})
	root := command.NewRootCommand(cli, &command.GlobalOptions{})
	command.AddCommands(root, cli)

	for _, name := range []string{"compile", "validate", "fmt", "watch", "version"} {
		cmd, _, err := root.Find([]string{name})
		assert.NoError(t, err, "command %s should exist", name)
		assert.Equal(t, name, cmd.Name())
	}
	assert.Len(t, root.Commands(), 5)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	_, _, err := sgc(t, dir, "log:\n  level: loud\n", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestRoot_UnknownConfigField(t *testing.T) {
	dir := t.TempDir()
	_, _, err := sgc(t, dir, "colour: blue\n", "version")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := sgc(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sgc "+command.Version)
}
