// Package config loads the sgc configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadergraph"
	"github.com/gogpu/shadergraph/glsl"
	"github.com/gogpu/shadergraph/hlsl"
	"github.com/gogpu/shadergraph/lower"
	"github.com/gogpu/shadergraph/msl"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "sgc.yaml"

// MemoryCache selects the in-process cache instead of a PostgreSQL DSN.
const MemoryCache = "memory"

// Config is the sgc configuration.
type Config struct {
	Version  int    `yaml:"version"`
	Target   string `yaml:"target"`
	OutDir   string `yaml:"out_dir"`
	Validate bool   `yaml:"validate"`

	Lower struct {
		ConstantFolding     bool `yaml:"constant_folding"`
		DeadNodeElimination bool `yaml:"dead_node_elimination"`
	} `yaml:"lower"`

	GLSL struct {
		Version string `yaml:"version"`
	} `yaml:"glsl"`
	HLSL struct {
		ShaderModel string `yaml:"shader_model"`
		EntryPoint  string `yaml:"entry_point"`
	} `yaml:"hlsl"`
	MSL struct {
		Version    string `yaml:"version"`
		EntryPoint string `yaml:"entry_point"`
	} `yaml:"msl"`
	WGSL struct {
		EntryPoint           string `yaml:"entry_point"`
		SamplerBindingOffset uint32 `yaml:"sampler_binding_offset"`
	} `yaml:"wgsl"`

	// Cache.DSN is a PostgreSQL connection string, "memory", or empty to
	// disable caching.
	Cache struct {
		DSN string `yaml:"dsn"`
	} `yaml:"cache"`

	// MQTT.URL enables hot-reload publishing when set.
	MQTT struct {
		URL      string `yaml:"url"`
		Prefix   string `yaml:"prefix"`
		ClientID string `yaml:"client_id"`
	} `yaml:"mqtt"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	cfg := &Config{Version: 1, Target: "glsl", Validate: true}
	cfg.Log.Level = "info"
	cfg.MQTT.ClientID = "sgc"
	return cfg
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported %s version: %d", path, cfg.Version)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment:
// SGC_TARGET, SGC_OUT_DIR, SGC_CACHE_DSN, MQTT_URL and SGC_LOG.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for key, field := range map[string]*string{
		"SGC_TARGET":    &c.Target,
		"SGC_OUT_DIR":   &c.OutDir,
		"SGC_CACHE_DSN": &c.Cache.DSN,
		"MQTT_URL":      &c.MQTT.URL,
		"SGC_LOG":       &c.Log.Level,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}
}

// CompileOptions converts the configuration into compile options.
func (c *Config) CompileOptions() (shadergraph.CompileOptions, error) {
	opts := shadergraph.DefaultOptions()

	target, err := shadergraph.ParseTarget(c.Target)
	if err != nil {
		return opts, err
	}
	opts.Target = target
	opts.Validate = c.Validate

	if c.Lower.ConstantFolding {
		opts.Lower = append(opts.Lower, lower.WithConstantFolding(true))
	}
	if c.Lower.DeadNodeElimination {
		opts.Lower = append(opts.Lower, lower.WithDeadNodeElimination(true))
	}

	if c.GLSL.Version != "" {
		v, err := glsl.ParseVersion(c.GLSL.Version)
		if err != nil {
			return opts, fmt.Errorf("glsl.version: %w", err)
		}
		opts.GLSL.LangVersion = v
	}
	if c.HLSL.ShaderModel != "" {
		sm, err := hlsl.ParseShaderModel(c.HLSL.ShaderModel)
		if err != nil {
			return opts, fmt.Errorf("hlsl.shader_model: %w", err)
		}
		opts.HLSL.ShaderModel = sm
	}
	if c.HLSL.EntryPoint != "" {
		opts.HLSL.EntryPoint = c.HLSL.EntryPoint
	}
	if c.MSL.Version != "" {
		v, err := msl.ParseVersion(c.MSL.Version)
		if err != nil {
			return opts, fmt.Errorf("msl.version: %w", err)
		}
		opts.MSL.LangVersion = v
	}
	opts.MSL.EntryPoint = c.MSL.EntryPoint
	opts.WGSL.EntryPoint = c.WGSL.EntryPoint
	if c.WGSL.SamplerBindingOffset != 0 {
		opts.WGSL.SamplerBindingOffset = c.WGSL.SamplerBindingOffset
	}
	return opts, nil
}
