package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/glsl"
	"github.com/gogpu/shadergraph/hlsl"
	"github.com/gogpu/shadergraph/msl"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `version: 1
target: msl
out_dir: build/shaders
lower:
  constant_folding: true
glsl:
  version: 300 es
hlsl:
  shader_model: "6.0"
msl:
  version: "2.3"
  entry_point: shade
wgsl:
  sampler_binding_offset: 8
cache:
  dsn: memory
mqtt:
  url: tcp://broker:1883
  prefix: studio
`)
	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "msl", cfg.Target)
	assert.Equal(t, "build/shaders", cfg.OutDir)
	assert.True(t, cfg.Validate, "defaults survive a partial file")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "sgc", cfg.MQTT.ClientID)
	assert.Equal(t, MemoryCache, cfg.Cache.DSN)

	opts, err := cfg.CompileOptions()
	require.NoError(t, err)
	assert.Equal(t, shadergraph.TargetMSL, opts.Target)
	assert.Len(t, opts.Lower, 1)
	assert.Equal(t, glsl.VersionES300, opts.GLSL.LangVersion)
	assert.Equal(t, hlsl.ShaderModel6_0, opts.HLSL.ShaderModel)
	assert.Equal(t, msl.Version2_3, opts.MSL.LangVersion)
	assert.Equal(t, "shade", opts.MSL.EntryPoint)
	assert.Equal(t, uint32(8), opts.WGSL.SamplerBindingOffset)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unsupported version", "version: 2\n", "unsupported"},
		{"unknown field", "version: 1\ntargte: glsl\n", "targte"},
		{"malformed", "version: [1\n", "sgc.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), FileName)

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(missing, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SGC_TARGET":    "wgsl",
		"SGC_CACHE_DSN": "host=db",
		"MQTT_URL":      "tcp://mqtt:1883",
		"SGC_LOG":       "",
	}
	cfg := Default()
	cfg.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	assert.Equal(t, "wgsl", cfg.Target)
	assert.Equal(t, "host=db", cfg.Cache.DSN)
	assert.Equal(t, "tcp://mqtt:1883", cfg.MQTT.URL)
	assert.Equal(t, "info", cfg.Log.Level, "empty values do not override")
}

func TestCompileOptions_Errors(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Config)
		want  string
	}{
		{"target", func(c *Config) { c.Target = "spirv" }, "unknown target"},
		{"glsl", func(c *Config) { c.GLSL.Version = "latest" }, "glsl.version"},
		{"hlsl", func(c *Config) { c.HLSL.ShaderModel = "4.0" }, "hlsl.shader_model"},
		{"msl", func(c *Config) { c.MSL.Version = "x" }, "msl.version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.apply(cfg)
			_, err := cfg.CompileOptions()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
