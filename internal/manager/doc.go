// Package manager supervises at most one worker process at a time. It is
// structured into small files by concern:
//
//   - manager.go: core Manager type and catalog operations.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: run state types (State, Snapshot).
//   - errors.go: error types and helpers (IsStateError, IsModelNotFound).
//   - ops.go: StartModel, StopModel, Send, RunPrompt.
//   - readers.go: output pumps and reaping for a started worker.
//   - events.go: EventPublisher and the no-op default.
//   - status_report.go: Status/Snapshot reporting helpers.
//   - sanity.go: launch plan report for every catalog record.
//   - metrics.go: Prometheus collectors.
//
// Every state transition happens under a single mutex. Reader goroutines take
// it only to clear the slot of the run they belong to, so a late reader from a
// previous worker never clears a newer one.
package manager
