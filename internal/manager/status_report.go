package manager

import (
	"time"

	"modelhost/pkg/types"
)

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{State: StateIdle, LoadedModel: m.catalog.Loaded()}
	if r := m.cur; r != nil {
		s.State = StateRunning
		s.RunID = r.id
		s.ModelID = r.model.ID
		s.PID = r.handle.PID()
	}
	return s
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	resp := types.StatusResponse{
		Running:        m.cur != nil,
		LoadedModel:    m.catalog.Loaded(),
		CatalogSize:    m.catalog.Len(),
		ModelsDir:      m.catalog.Dir(),
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
		StartsTotal:    m.startsTotal,
	}
	if d, ok := m.publisher.(interface{ Dropped() uint64 }); ok {
		resp.DroppedNotifications = d.Dropped()
	}
	if r := m.cur; r != nil {
		resp.Worker = &types.WorkerStatus{
			RunID:         r.id,
			ModelID:       r.model.ID,
			PID:           r.handle.PID(),
			Strategy:      r.spec.Strategy,
			StartedUnix:   r.started.Unix(),
			UptimeSeconds: int64(now.Sub(r.started).Seconds()),
		}
	}
	return resp
}
