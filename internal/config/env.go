package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override, e.g. MODELHOST_ADDR.
const EnvPrefix = "MODELHOST_"

// FromEnv builds a Config from MODELHOST_* variables. lookup is usually
// os.LookupEnv. List values are comma separated.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	var errs []string
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = SplitCSV(v)
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	optNum := func(name string, dst **int) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = &n
		}
	}
	flag := func(name string, dst **bool) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s: %v", EnvPrefix, name, err))
				return
			}
			*dst = &b
		}
	}

	str("ADDR", &cfg.Addr)
	str("MODELS_DIR", &cfg.ModelsDir)
	list("MODEL_EXTENSIONS", &cfg.ModelExtensions)
	str("LLAMA_BIN", &cfg.LlamaBin)
	list("LLAMA_ARGS", &cfg.LlamaArgs)
	num("EVENT_BUFFER", &cfg.EventBuffer)
	optNum("STOP_GRACE_MS", &cfg.StopGraceMS)
	optNum("WRITE_TIMEOUT_MS", &cfg.WriteTimeoutMS)
	flag("FORWARD_PROMPT_ON_START", &cfg.ForwardPromptOnStart)
	flag("WATCH_MODELS", &cfg.WatchModels)
	num("DEMO_COUNT", &cfg.DemoCount)
	num("DEMO_INTERVAL_MS", &cfg.DemoIntervalMS)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	flag("CORS_ENABLED", &cfg.CORSEnabled)
	list("CORS_ORIGINS", &cfg.CORSOrigins)
	if v, ok := lookup(EnvPrefix + "MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%sMAX_BODY_BYTES: %v", EnvPrefix, err))
		} else {
			cfg.MaxBodyBytes = n
		}
	}
	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
