package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelhost/internal/registry"
	"modelhost/pkg/types"
)

// Manager supervises at most one worker process. mu guards the slot, the
// catalog and the loaded flag; every Idle/Running transition happens under it.
type Manager struct {
	mu        sync.Mutex
	catalog   *registry.Catalog
	cur       *run
	resolver  LaunchResolver
	publisher EventPublisher
	log       zerolog.Logger

	stopGrace     time.Duration
	writeTimeout  time.Duration
	workerEnv     []string
	forwardPrompt bool

	startTime   time.Time
	startsTotal uint64
	closed      bool

	// readers tracks supervise goroutines so Close can wait for them.
	readers sync.WaitGroup
}

// New returns a Manager over modelsDir with default settings.
func New(modelsDir string) *Manager {
	return NewWithConfig(ManagerConfig{ModelsDir: modelsDir})
}

// Ready reports whether the catalog has at least one model.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.Len() > 0
}

// ListModels returns copies of the catalog records sorted by id.
func (m *Manager) ListModels() []types.Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.List()
}

// RescanModels rebuilds the catalog from disk. A discovery failure leaves the
// catalog empty and is returned along with the (empty) list.
func (m *Manager) RescanModels() ([]types.Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.rescanLocked()
	return m.catalog.List(), err
}

func (m *Manager) rescanLocked() error {
	err := m.catalog.Rescan()
	if err != nil {
		m.log.Warn().Err(err).Str("dir", m.catalog.Dir()).Msg("model discovery failed")
	} else {
		m.log.Debug().Int("models", m.catalog.Len()).Str("dir", m.catalog.Dir()).Msg("catalog rescanned")
	}
	catalogModels.Set(float64(m.catalog.Len()))
	return err
}

// LoadModel marks id as the default model for RunPrompt. No process is started.
func (m *Manager) LoadModel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.catalog.MarkLoaded(id) {
		return ErrModelNotFound(id)
	}
	m.log.Info().Str("model", id).Msg("model marked loaded")
	return nil
}

// UnloadModel clears the loaded mark. It never touches a running process.
func (m *Manager) UnloadModel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog.ClearLoaded()
}

// Close stops any running worker and waits for its readers to finish. The
// manager rejects StartModel afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.closed = true
	var err error
	if m.cur != nil {
		err = m.stopLocked()
	}
	m.mu.Unlock()
	m.readers.Wait()
	return err
}
