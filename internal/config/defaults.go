package config

import (
	"time"

	"modelhost/internal/events"
	"modelhost/internal/launcher"
	"modelhost/internal/registry"
)

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	f := false
	t := true
	grace, write := 2000, 5000
	return Config{
		Addr:                 ":8080",
		ModelsDir:            "~/models/llm",
		ModelExtensions:      append([]string(nil), registry.DefaultExtensions...),
		EventBuffer:          events.DefaultBuffer,
		StopGraceMS:          &grace,
		WriteTimeoutMS:       &write,
		ForwardPromptOnStart: &f,
		WatchModels:          &t,
		DemoCount:            launcher.DefaultDemoCount,
		DemoIntervalMS:       int(launcher.DefaultDemoInterval / time.Millisecond),
		LogLevel:             "info",
		LogFormat:            "auto",
		CORSEnabled:          &f,
		MaxBodyBytes:         1 << 20,
	}
}

// Merge returns c with every field that is set in o overriding it.
func (c Config) Merge(o Config) Config {
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if o.ModelsDir != "" {
		c.ModelsDir = o.ModelsDir
	}
	if len(o.ModelExtensions) > 0 {
		c.ModelExtensions = o.ModelExtensions
	}
	if o.LlamaBin != "" {
		c.LlamaBin = o.LlamaBin
	}
	if len(o.LlamaArgs) > 0 {
		c.LlamaArgs = o.LlamaArgs
	}
	if o.EventBuffer != 0 {
		c.EventBuffer = o.EventBuffer
	}
	if o.StopGraceMS != nil {
		c.StopGraceMS = o.StopGraceMS
	}
	if o.WriteTimeoutMS != nil {
		c.WriteTimeoutMS = o.WriteTimeoutMS
	}
	if o.ForwardPromptOnStart != nil {
		c.ForwardPromptOnStart = o.ForwardPromptOnStart
	}
	if o.WatchModels != nil {
		c.WatchModels = o.WatchModels
	}
	if o.DemoCount != 0 {
		c.DemoCount = o.DemoCount
	}
	if o.DemoIntervalMS != 0 {
		c.DemoIntervalMS = o.DemoIntervalMS
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.CORSEnabled != nil {
		c.CORSEnabled = o.CORSEnabled
	}
	if len(o.CORSOrigins) > 0 {
		c.CORSOrigins = o.CORSOrigins
	}
	if o.MaxBodyBytes != 0 {
		c.MaxBodyBytes = o.MaxBodyBytes
	}
	return c
}

// StopGrace converts StopGraceMS. An explicit zero or a negative value means
// "kill immediately" and is returned as a negative duration; unset returns 0,
// which the manager treats as its default.
func (c Config) StopGrace() time.Duration { return explicitMS(c.StopGraceMS) }

// WriteTimeout converts WriteTimeoutMS. An explicit zero or a negative value
// disables the deadline; unset returns 0 (the worker default).
func (c Config) WriteTimeout() time.Duration { return explicitMS(c.WriteTimeoutMS) }

func explicitMS(ms *int) time.Duration {
	switch {
	case ms == nil:
		return 0
	case *ms <= 0:
		return -1
	}
	return time.Duration(*ms) * time.Millisecond
}

// Int returns a pointer to n, for optional numeric fields.
func Int(n int) *int { return &n }

func (c Config) DemoInterval() time.Duration {
	return time.Duration(c.DemoIntervalMS) * time.Millisecond
}

// Bool dereferences an optional flag, treating nil as false.
func Bool(b *bool) bool { return b != nil && *b }
