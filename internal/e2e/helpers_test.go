//go:build !windows

package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"modelhost/internal/events"
	"modelhost/internal/httpapi"
	"modelhost/internal/launcher"
	"modelhost/internal/manager"
	"modelhost/pkg/types"
)

// scripts maps model id to a /bin/sh script run as that model's worker.
type scripts map[string]string

func (s scripts) Resolve(m types.Model) (launcher.Spec, error) {
	body, ok := s[m.ID]
	if !ok {
		return launcher.Spec{}, &launcher.ResolutionError{ModelID: m.ID, Err: launcher.ErrNoStrategy}
	}
	return launcher.Spec{Path: "/bin/sh", Args: []string{"-c", body}, Strategy: "script"}, nil
}

// createTempModelsDir creates a temporary directory populated with empty model
// files named <id>.gguf.
func createTempModelsDir(t *testing.T, ids ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, id := range ids {
		p := filepath.Join(dir, id+".gguf")
		if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

type harness struct {
	srv *httptest.Server
	mgr *manager.Manager
	bus *events.Bus
}

func newHarness(t *testing.T, dir string, res scripts) *harness {
	t.Helper()
	httpapi.SetEventBuffer(4096)
	t.Cleanup(func() { httpapi.SetEventBuffer(0) })
	bus := events.NewBus(manager.IncDroppedEvents)
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		ModelsDir: dir,
		Resolver:  res,
		Publisher: bus,
		StopGrace: 500 * time.Millisecond,
	})
	srv := httptest.NewServer(httpapi.NewMux(mgr, bus))
	t.Cleanup(func() {
		srv.Close()
		_ = mgr.Close()
		_ = bus.Close()
	})
	return &harness{srv: srv, mgr: mgr, bus: bus}
}

func (h *harness) post(t *testing.T, path, payload string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.srv.URL+path, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func (h *harness) status(t *testing.T) types.StatusResponse {
	t.Helper()
	resp, err := http.Get(h.srv.URL + "/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	var st types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st
}

// frame is one decoded SSE event.
type frame struct {
	event string
	out   events.OutputLinePayload
	state events.RunStatePayload
}

// subscribe opens /events and decodes frames until the test ends.
func (h *harness) subscribe(t *testing.T) <-chan frame {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, h.srv.URL+"/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	ch := make(chan frame, 4096)
	go func() {
		defer resp.Body.Close()
		defer close(ch)
		sc := bufio.NewScanner(resp.Body)
		var f frame
		for sc.Scan() {
			line := sc.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				f.event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data := []byte(strings.TrimPrefix(line, "data: "))
				if f.event == string(events.KindRunState) {
					_ = json.Unmarshal(data, &f.state)
				} else {
					_ = json.Unmarshal(data, &f.out)
				}
			case line == "":
				ch <- f
				f = frame{}
			}
		}
	}()
	return ch
}

// collectUntilStopped reads frames until a stopped run_state arrives.
func collectUntilStopped(t *testing.T, ch <-chan frame) []frame {
	t.Helper()
	var got []frame
	timeout := time.After(10 * time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				t.Fatalf("stream closed after %d frames", len(got))
			}
			got = append(got, f)
			if f.event == string(events.KindRunState) && !f.state.Running {
				return got
			}
		case <-timeout:
			t.Fatalf("timed out after %d frames", len(got))
		}
	}
}
