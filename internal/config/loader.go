package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by Defaults when merged.
type Config struct {
	Addr            string   `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir       string   `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	ModelExtensions []string `json:"model_extensions" yaml:"model_extensions" toml:"model_extensions"`
	LlamaBin        string   `json:"llama_bin" yaml:"llama_bin" toml:"llama_bin"`
	LlamaArgs       []string `json:"llama_args" yaml:"llama_args" toml:"llama_args"`

	EventBuffer          int   `json:"event_buffer" yaml:"event_buffer" toml:"event_buffer"`
	StopGraceMS          *int  `json:"stop_grace_ms" yaml:"stop_grace_ms" toml:"stop_grace_ms"`
	WriteTimeoutMS       *int  `json:"write_timeout_ms" yaml:"write_timeout_ms" toml:"write_timeout_ms"`
	ForwardPromptOnStart *bool `json:"forward_prompt_on_start" yaml:"forward_prompt_on_start" toml:"forward_prompt_on_start"`
	WatchModels          *bool `json:"watch_models" yaml:"watch_models" toml:"watch_models"`

	DemoCount      int `json:"demo_count" yaml:"demo_count" toml:"demo_count"`
	DemoIntervalMS int `json:"demo_interval_ms" yaml:"demo_interval_ms" toml:"demo_interval_ms"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	CORSEnabled  *bool    `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
