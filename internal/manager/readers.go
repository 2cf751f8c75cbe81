package manager

import (
	"bufio"
	"io"

	"golang.org/x/sync/errgroup"

	"modelhost/internal/events"
	"modelhost/internal/worker"
)

// supervise pumps both output streams of r until EOF, reaps the
// process, clears the slot if it still belongs to r, and publishes exactly
// one stopped notification.
func (m *Manager) supervise(r *run) {
	defer m.readers.Done()

	var g errgroup.Group
	g.Go(func() error { return m.pump(r, events.StreamStdout, r.handle.Stdout()) })
	g.Go(func() error { return m.pump(r, events.StreamStderr, r.handle.Stderr()) })
	if err := g.Wait(); err != nil {
		m.log.Debug().Err(err).Str("run_id", r.id).Msg("output reader ended early")
	}
	r.handle.CloseOutput()
	werr := r.handle.Wait()

	m.mu.Lock()
	stopped := r.stopping
	if m.cur == r {
		m.cur = nil
		workerRunning.Set(0)
	}
	m.mu.Unlock()

	reason := "exited"
	if stopped {
		reason = "stopped"
	}
	workerExitsTotal.WithLabelValues(reason).Inc()
	m.log.Info().
		Str("run_id", r.id).
		Str("model", r.model.ID).
		Int("exit_code", worker.ExitCode(werr)).
		Str("reason", reason).
		Msg("worker exited")
	m.publisher.Publish(events.RunState(r.id, r.model.ID, false, r.handle.PID()))
}

// pump forwards each line from rd as a notification. A line longer than
// maxLineBytes ends forwarding for the stream; the rest is discarded so the
// worker never blocks on a full pipe.
func (m *Manager) pump(r *run, stream events.Stream, rd io.Reader) error {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lines := workerOutputLines.WithLabelValues(string(stream))
	for sc.Scan() {
		m.publisher.Publish(events.OutputLine(r.id, r.model.ID, stream, sc.Text()))
		lines.Inc()
	}
	err := sc.Err()
	if err != nil {
		_, _ = io.Copy(io.Discard, rd)
	}
	return err
}
