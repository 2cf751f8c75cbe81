package manager

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"modelhost/internal/events"
	"modelhost/internal/worker"
)

// errClosed is returned by StartModel after Close.
var errClosed = errors.New("manager closed")

// StartModel resolves and spawns a worker for id. It fails with
// ErrAlreadyRunning while a worker occupies the slot. A failed start leaves
// the manager idle.
func (m *Manager) StartModel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(id)
}

func (m *Manager) startLocked(id string) error {
	if m.closed {
		return errClosed
	}
	if m.cur != nil {
		return ErrAlreadyRunning
	}
	mdl, ok := m.catalog.Get(id)
	if !ok {
		return ErrModelNotFound(id)
	}
	spec, err := m.resolver.Resolve(mdl)
	if err != nil {
		m.log.Warn().Err(err).Str("model", id).Msg("no launch strategy")
		return err
	}
	h, err := worker.Spawn(spec, worker.Options{Env: m.workerEnv, WriteTimeout: m.writeTimeout})
	if err != nil {
		m.log.Error().Err(err).Str("model", id).Str("cmd", spec.String()).Msg("spawn failed")
		return err
	}
	r := &run{id: uuid.NewString(), model: mdl, spec: spec, handle: h, started: time.Now()}
	m.cur = r
	m.startsTotal++
	workerStartsTotal.WithLabelValues(spec.Strategy).Inc()
	workerRunning.Set(1)
	m.log.Info().
		Str("model", id).
		Str("run_id", r.id).
		Int("pid", h.PID()).
		Str("strategy", spec.Strategy).
		Str("cmd", spec.String()).
		Msg("worker started")

	// Published before the readers exist so it precedes every output line.
	m.publisher.Publish(events.RunState(r.id, mdl.ID, true, h.PID()))
	m.readers.Add(1)
	go m.supervise(r)
	return nil
}

// StopModel terminates the running worker and blocks until it is reaped. The
// slot is cleared even when termination reports an error.
func (m *Manager) StopModel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return ErrNotRunning
	}
	return m.stopLocked()
}

func (m *Manager) stopLocked() error {
	r := m.cur
	r.stopping = true
	err := r.handle.Terminate(m.stopGrace)
	m.cur = nil
	workerRunning.Set(0)
	if err != nil {
		m.log.Error().Err(err).Str("run_id", r.id).Int("pid", r.handle.PID()).Msg("terminate failed")
		return err
	}
	m.log.Info().Str("run_id", r.id).Str("model", r.model.ID).Msg("worker stopped")
	return nil
}

// Send writes one line to the running worker's stdin. The write happens
// outside the manager lock so a worker that stops reading cannot hold up
// StopModel; a concurrent stop fails the write with worker.ErrClosed.
func (m *Manager) Send(text string) error {
	m.mu.Lock()
	if m.cur == nil {
		m.mu.Unlock()
		return ErrNotRunning
	}
	h := m.cur.handle
	m.mu.Unlock()
	return h.WriteLine(text)
}

// RunPrompt delivers prompt to the running worker. When idle it starts
// modelID, falling back to the loaded model, and fails with
// ErrNoModelAvailable when neither is set. The prompt is written to a worker
// started this way only when ForwardPromptOnStart is enabled.
func (m *Manager) RunPrompt(prompt, modelID string) error {
	h, err := m.promptTarget(modelID)
	if err != nil || h == nil {
		return err
	}
	return h.WriteLine(prompt)
}

// promptTarget returns the handle RunPrompt should write to, starting a
// worker if the slot is empty. A nil handle with a nil error means a worker
// was started and the prompt is not forwarded.
func (m *Manager) promptTarget(modelID string) (*worker.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur != nil {
		return m.cur.handle, nil
	}
	id := modelID
	if id == "" {
		id = m.catalog.Loaded()
	}
	if id == "" {
		return nil, ErrNoModelAvailable
	}
	if err := m.startLocked(id); err != nil {
		return nil, err
	}
	if m.forwardPrompt {
		return m.cur.handle, nil
	}
	return nil, nil
}
