//go:build !windows

package worker

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"modelhost/internal/launcher"
)

func shSpec(script string) launcher.Spec {
	return launcher.Spec{Path: "/bin/sh", Args: []string{"-c", script}}
}

func TestSpawn_EchoRoundTrip(t *testing.T) {
	h, err := Spawn(shSpec(`read line; echo "got:$line"; echo oops >&2`), Options{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if h.PID() <= 0 {
		t.Fatalf("pid = %d", h.PID())
	}
	if err := h.WriteLine("hello"); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _ := io.ReadAll(h.Stdout())
	errOut, _ := io.ReadAll(h.Stderr())
	if err := h.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if strings.TrimSpace(string(out)) != "got:hello" {
		t.Fatalf("stdout = %q", out)
	}
	if strings.TrimSpace(string(errOut)) != "oops" {
		t.Fatalf("stderr = %q", errOut)
	}
	if h.cmd.ProcessState == nil {
		t.Fatalf("process not reaped after Wait")
	}
}

func TestSpawn_MissingBinary(t *testing.T) {
	_, err := Spawn(launcher.Spec{Path: "/definitely/not/here"}, Options{})
	var se *SpawnError
	if !errors.As(err, &se) {
		t.Fatalf("expected SpawnError, got %v", err)
	}
	if _, err := Spawn(launcher.Spec{}, Options{}); !errors.As(err, &se) {
		t.Fatalf("expected SpawnError for empty command, got %v", err)
	}
}

func TestSpawn_UsesDirAndEnv(t *testing.T) {
	dir := t.TempDir()
	spec := shSpec(`pwd; echo "$MODELHOST_TEST"`)
	spec.Dir = dir
	h, err := Spawn(spec, Options{Env: []string{"MODELHOST_TEST=yes"}})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	sc := bufio.NewScanner(h.Stdout())
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	_ = h.Wait()
	if len(lines) != 2 || lines[1] != "yes" {
		t.Fatalf("lines = %q", lines)
	}
	// macOS temp dirs resolve through /private; compare the suffix.
	if !strings.HasSuffix(lines[0], strings.TrimPrefix(dir, "/private")) {
		t.Fatalf("pwd = %q, want %q", lines[0], dir)
	}
}

func TestTerminate_KillsAndReaps(t *testing.T) {
	h, err := Spawn(shSpec(`sleep 30`), Options{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	start := time.Now()
	if err := h.Terminate(0); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("terminate took too long")
	}
	if h.cmd.ProcessState == nil {
		t.Fatalf("process not reaped")
	}
	if err := h.WriteLine("late"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after terminate, got %v", err)
	}
}

func TestTerminate_GracefulSigterm(t *testing.T) {
	h, err := Spawn(shSpec(`trap 'exit 0' TERM; while :; do sleep 0.05; done`), Options{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := h.Terminate(3 * time.Second); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if code := h.cmd.ProcessState.ExitCode(); code != 0 {
		t.Fatalf("exit code = %d, want 0 from the TERM trap", code)
	}
}

func TestTerminate_AfterExitIsNoop(t *testing.T) {
	h, err := Spawn(shSpec(`exit 3`), Options{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	_, _ = io.ReadAll(h.Stdout())
	werr := h.Wait()
	if ExitCode(werr) != 3 {
		t.Fatalf("exit code = %d (%v)", ExitCode(werr), werr)
	}
	if err := h.Terminate(0); err != nil {
		t.Fatalf("terminate after exit: %v", err)
	}
}

func TestWriteLine_AfterExitFails(t *testing.T) {
	h, err := Spawn(shSpec(`exit 0`), Options{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	_, _ = io.ReadAll(h.Stdout())
	_ = h.Wait()
	var we *WriteError
	if err := h.WriteLine("x"); !errors.As(err, &we) {
		t.Fatalf("expected WriteError, got %v", err)
	}
}

func TestWriteLine_DeadlineOnStalledReader(t *testing.T) {
	h, err := Spawn(shSpec(`sleep 30`), Options{WriteTimeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	defer h.Terminate(0)
	big := strings.Repeat("x", 1<<20)
	start := time.Now()
	err = h.WriteLine(big)
	if err == nil {
		t.Fatalf("expected write to time out")
	}
	if !errors.Is(err, os.ErrDeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 3*time.Second {
		t.Fatalf("write blocked too long")
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("nil should be 0")
	}
	if ExitCode(errors.New("x")) != -1 {
		t.Fatalf("non-exit error should be -1")
	}
}

func TestTerminate_LeavesBufferedOutputReadable(t *testing.T) {
	h, err := Spawn(shSpec(`trap 'echo last; exit 0' TERM; echo first; while :; do sleep 0.05; done`), Options{})
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	defer h.CloseOutput()
	time.Sleep(100 * time.Millisecond)
	if err := h.Terminate(3 * time.Second); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	// Reaped before anything was read: both lines must still be in the pipe.
	out, err := io.ReadAll(h.Stdout())
	if err != nil {
		t.Fatalf("read after reap: %v", err)
	}
	if got := strings.Fields(string(out)); len(got) != 2 || got[0] != "first" || got[1] != "last" {
		t.Fatalf("stdout = %q", out)
	}
}
