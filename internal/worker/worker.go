// Package worker wraps one running worker process: its stdin pipe, its two
// output streams, and termination with reaping.
package worker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"modelhost/internal/launcher"
)

// Defaults applied when the corresponding Options fields are unset.
const (
	defaultWriteTimeout = 5 * time.Second
	defaultKillTimeout  = 5 * time.Second
)

// ErrClosed is returned by WriteLine once termination has been requested.
var ErrClosed = errors.New("worker input closed")

// SpawnError reports an OS-level failure to create the process.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn %s: %v", e.Path, e.Err) }

func (e *SpawnError) Unwrap() error { return e.Err }

// WriteError reports a failed write to the worker's stdin.
type WriteError struct {
	PID int
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write to worker pid %d: %v", e.PID, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

// TerminateError reports a failure to deliver a termination signal or to
// observe the process exit afterwards.
type TerminateError struct {
	PID int
	Err error
}

func (e *TerminateError) Error() string {
	return fmt.Sprintf("terminate worker pid %d: %v", e.PID, e.Err)
}

func (e *TerminateError) Unwrap() error { return e.Err }

// Options tunes a spawned worker.
type Options struct {
	// Env is appended to the daemon's environment.
	Env []string
	// WriteTimeout bounds a single WriteLine where the platform supports
	// pipe deadlines. Zero uses the default; negative disables it. Windows
	// pipes take no deadline, so there a write into a worker that stopped
	// reading blocks until Terminate closes stdin.
	WriteTimeout time.Duration
	// KillTimeout bounds the wait for reaping after SIGKILL.
	KillTimeout time.Duration
}

// Handle is a live worker process.
type Handle struct {
	cmd          *exec.Cmd
	stdin        *os.File
	stdout       *os.File
	stderr       *os.File
	writeTimeout time.Duration
	killTimeout  time.Duration

	writeMu  sync.Mutex
	closing  atomic.Bool
	waitOnce sync.Once
	waitErr  error
	done     chan struct{}
}

// Spawn starts the process described by spec with stdin open for writing and
// stdout/stderr open for reading.
func Spawn(spec launcher.Spec, opts Options) (*Handle, error) {
	if spec.Path == "" {
		return nil, &SpawnError{Path: spec.Path, Err: errors.New("empty command")}
	}
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), opts.Env...)
	setProcAttrs(cmd)

	// Raw pipes on all three streams. stdin can carry a write deadline, and
	// cmd.Wait never closes the output read ends, so reaping cannot cut off
	// readers that are still draining buffered lines.
	var parent, child []*os.File
	closeAll := func() {
		for _, f := range append(parent, child...) {
			_ = f.Close()
		}
	}
	for i := 0; i < 3; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closeAll()
			return nil, &SpawnError{Path: spec.Path, Err: fmt.Errorf("pipe: %w", err)}
		}
		if i == 0 {
			parent, child = append(parent, w), append(child, r)
		} else {
			parent, child = append(parent, r), append(child, w)
		}
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = child[0], child[1], child[2]
	if err := cmd.Start(); err != nil {
		closeAll()
		return nil, &SpawnError{Path: spec.Path, Err: err}
	}
	// The child holds its own copies; the output streams hit EOF once every
	// process in the group has exited.
	for _, f := range child {
		_ = f.Close()
	}
	pw, stdout, stderr := parent[0], parent[1], parent[2]

	h := &Handle{
		cmd:          cmd,
		stdin:        pw,
		stdout:       stdout,
		stderr:       stderr,
		writeTimeout: opts.WriteTimeout,
		killTimeout:  opts.KillTimeout,
		done:         make(chan struct{}),
	}
	if h.writeTimeout == 0 {
		h.writeTimeout = defaultWriteTimeout
	}
	if h.killTimeout <= 0 {
		h.killTimeout = defaultKillTimeout
	}
	return h, nil
}

// PID returns the OS process id.
func (h *Handle) PID() int { return h.cmd.Process.Pid }

// Stdout returns the standard output stream.
func (h *Handle) Stdout() io.Reader { return h.stdout }

// Stderr returns the error output stream.
func (h *Handle) Stderr() io.Reader { return h.stderr }

// WriteLine writes text plus a newline to stdin.
func (h *Handle) WriteLine(text string) error {
	if h.closing.Load() {
		return &WriteError{PID: h.PID(), Err: ErrClosed}
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if h.writeTimeout > 0 {
		// Not every platform supports deadlines on pipes; without one the
		// write simply blocks until the worker reads.
		_ = h.stdin.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	}
	if _, err := io.WriteString(h.stdin, text+"\n"); err != nil {
		if h.closing.Load() {
			err = ErrClosed
		}
		return &WriteError{PID: h.PID(), Err: err}
	}
	return nil
}

// CloseOutput releases the read ends of stdout and stderr. Call it once the
// readers are done; Wait leaves them open.
func (h *Handle) CloseOutput() {
	_ = h.stdout.Close()
	_ = h.stderr.Close()
}

// Wait reaps the process once and returns its exit error. It does not touch
// the output streams, which may still hold unread lines.
func (h *Handle) Wait() error {
	h.waitOnce.Do(func() {
		h.waitErr = h.cmd.Wait()
		close(h.done)
	})
	return h.waitErr
}

// Terminate closes stdin, asks the process group to exit, escalates to a kill
// after grace (immediately when grace is zero), and blocks until the process
// is reaped. Any WriteLine issued after Terminate starts fails with ErrClosed.
func (h *Handle) Terminate(grace time.Duration) error {
	h.closing.Store(true)
	_ = h.stdin.Close()

	select {
	case <-h.done:
		return nil
	default:
	}
	go func() { _ = h.Wait() }()

	if grace > 0 {
		if err := interruptProcess(h.cmd); err == nil {
			select {
			case <-h.done:
				return nil
			case <-time.After(grace):
			}
		}
	}
	if err := killProcess(h.cmd); err != nil && !errors.Is(err, os.ErrProcessDone) {
		select {
		case <-h.done:
			return nil
		default:
		}
		return &TerminateError{PID: h.PID(), Err: err}
	}
	select {
	case <-h.done:
		return nil
	case <-time.After(h.killTimeout):
		return &TerminateError{PID: h.PID(), Err: fmt.Errorf("not reaped within %s of kill", h.killTimeout)}
	}
}

// ExitCode extracts the exit code from a Wait error: 0 for nil, the process
// code for an ExitError, -1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
