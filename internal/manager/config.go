package manager

import (
	"time"

	"github.com/rs/zerolog"

	"modelhost/internal/launcher"
	"modelhost/internal/registry"
	"modelhost/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultStopGrace    = 2 * time.Second
	defaultWriteTimeout = 5 * time.Second
	maxLineBytes        = 1 << 20
)

// LaunchResolver turns a catalog record into a worker command line.
// *launcher.Resolver satisfies it.
type LaunchResolver interface {
	Resolve(m types.Model) (launcher.Spec, error)
}

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	ModelsDir  string
	Extensions []string
	// Resolver defaults to launcher.Default with llama discovery and no demo.
	Resolver  LaunchResolver
	Publisher EventPublisher
	Logger    *zerolog.Logger
	// StopGrace is how long StopModel waits after SIGTERM before killing.
	// Negative kills immediately.
	StopGrace time.Duration
	// WriteTimeout bounds writes to the worker's stdin. Negative disables it.
	WriteTimeout time.Duration
	// WorkerEnv is appended to the environment of spawned workers.
	WorkerEnv []string
	// ForwardPromptOnStart makes RunPrompt write the prompt to a worker it
	// had to start. Off by default: the prompt that triggered the start is
	// not delivered.
	ForwardPromptOnStart bool
}

// NewWithConfig constructs a Manager from ManagerConfig and performs the
// initial catalog scan.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		catalog:       registry.NewCatalog(cfg.ModelsDir, cfg.Extensions),
		resolver:      cfg.Resolver,
		publisher:     cfg.Publisher,
		log:           zerolog.Nop(),
		stopGrace:     cfg.StopGrace,
		writeTimeout:  cfg.WriteTimeout,
		workerEnv:     append([]string(nil), cfg.WorkerEnv...),
		forwardPrompt: cfg.ForwardPromptOnStart,
		startTime:     time.Now(),
	}
	// Apply defaults if unset
	if m.resolver == nil {
		m.resolver = launcher.Default(launcher.Options{DiscoverLlama: true})
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "manager").Logger()
	}
	switch {
	case m.stopGrace == 0:
		m.stopGrace = defaultStopGrace
	case m.stopGrace < 0:
		m.stopGrace = 0
	}
	if m.writeTimeout == 0 {
		m.writeTimeout = defaultWriteTimeout
	}
	m.rescanLocked()
	return m
}
