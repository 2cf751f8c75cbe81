package manager

import (
	"time"

	"modelhost/internal/launcher"
	"modelhost/internal/worker"
	"modelhost/pkg/types"
)

// State is the externally visible run state. Starting and stopping happen
// under the manager lock and are never observed.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// run is one worker lifetime, from spawn to reap.
type run struct {
	id       string
	model    types.Model
	spec     launcher.Spec
	handle   *worker.Handle
	started  time.Time
	stopping bool
}

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State       State
	RunID       string
	ModelID     string
	PID         int
	LoadedModel string
}
