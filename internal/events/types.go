// Package events carries worker notifications from the manager to consumers.
//
// Producers publish Notification values; consumers own bounded Channels.
// A Channel never blocks its producers: when full it drops the oldest
// buffered notification and counts the drop. The Bus fans notifications out
// to any number of subscribers, each with its own Channel.
package events

import "time"

// TypeNotification is the kelindar/event type id for Notification.
const TypeNotification uint32 = 1

// Kind distinguishes notification payloads.
type Kind string

const (
	KindOutputLine Kind = "output_line"
	KindRunState   Kind = "run_state"
)

// Stream identifies which worker output stream a line came from.
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// ErrPrefix marks lines read from the worker's error stream.
const ErrPrefix = "[ERR] "

// Notification is one message for the surrounding application: either an
// output line or a run state change.
type Notification struct {
	Kind    Kind
	RunID   string
	ModelID string
	Time    time.Time

	// Output line fields.
	Stream Stream
	Text   string

	// Run state fields.
	Running bool
	PID     int
}

// Type implements kelindar/event's Event.
func (Notification) Type() uint32 { return TypeNotification }

// OutputLine builds an output line notification. Error stream lines get ErrPrefix.
func OutputLine(runID, modelID string, stream Stream, text string) Notification {
	if stream == StreamStderr {
		text = ErrPrefix + text
	}
	return Notification{Kind: KindOutputLine, RunID: runID, ModelID: modelID, Stream: stream, Text: text, Time: time.Now()}
}

// RunState builds a run state notification.
func RunState(runID, modelID string, running bool, pid int) Notification {
	return Notification{Kind: KindRunState, RunID: runID, ModelID: modelID, Running: running, PID: pid, Time: time.Now()}
}

// OutputLinePayload is the wire shape of an output line.
type OutputLinePayload struct {
	Text    string `json:"text"`
	Stream  Stream `json:"stream"`
	RunID   string `json:"run_id"`
	ModelID string `json:"model_id"`
}

// RunStatePayload is the wire shape of a run state change.
type RunStatePayload struct {
	Running bool   `json:"running"`
	RunID   string `json:"run_id"`
	ModelID string `json:"model_id"`
	PID     int    `json:"pid,omitempty"`
}

// Payload returns the kind-specific wire value.
func (n Notification) Payload() any {
	if n.Kind == KindRunState {
		return RunStatePayload{Running: n.Running, RunID: n.RunID, ModelID: n.ModelID, PID: n.PID}
	}
	return OutputLinePayload{Text: n.Text, Stream: n.Stream, RunID: n.RunID, ModelID: n.ModelID}
}
