package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"modelhost/internal/launcher"
	"modelhost/internal/manager"
	"modelhost/internal/worker"
	"modelhost/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	var (
		he HTTPError
		we *worker.WriteError
		se *worker.SpawnError
		te *worker.TerminateError
	)
	switch {
	case errors.Is(err, manager.ErrAlreadyRunning), errors.Is(err, manager.ErrNotRunning):
		return http.StatusConflict
	case errors.Is(err, manager.ErrNoModelAvailable):
		return http.StatusUnprocessableEntity
	case manager.IsModelNotFound(err):
		return http.StatusNotFound
	case launcher.IsResolutionError(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &we):
		return http.StatusBadGateway
	case errors.As(err, &se), errors.As(err, &te):
		return http.StatusInternalServerError
	case errors.As(err, &he):
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeServiceError maps err, counts conflicts, and writes the JSON error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	switch {
	case errors.Is(err, manager.ErrAlreadyRunning):
		IncrementRejection("already_running")
	case errors.Is(err, manager.ErrNotRunning):
		IncrementRejection("not_running")
	case errors.Is(err, manager.ErrNoModelAvailable):
		IncrementRejection("no_model")
	}
	if status >= http.StatusInternalServerError {
		logWarn(r, err, "request failed")
	}
	writeJSONError(w, status, err.Error())
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
