package manager

import "errors"

// stateError is a precondition violation on the manager's run state.
type stateError struct{ msg string }

func (e stateError) Error() string { return e.msg }

// State errors returned by StartModel, StopModel, Send and RunPrompt.
var (
	ErrAlreadyRunning   error = stateError{msg: "a model process is already running"}
	ErrNotRunning       error = stateError{msg: "no running process"}
	ErrNoModelAvailable error = stateError{msg: "no model available to run prompt"}
)

// IsStateError reports whether err is one of the state errors.
func IsStateError(err error) bool {
	var se stateError
	return errors.As(err, &se)
}

// modelNotFoundError is returned when a requested model id is not in the catalog.
type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound returns an error for an id missing from the catalog.
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	var mnf modelNotFoundError
	return errors.As(err, &mnf)
}
