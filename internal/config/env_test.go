package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(mapLookup(map[string]string{
		"MODELHOST_ADDR":                    ":7070",
		"MODELHOST_MODEL_EXTENSIONS":        "gguf, bin",
		"MODELHOST_FORWARD_PROMPT_ON_START": "true",
		"MODELHOST_EVENT_BUFFER":            "32",
		"MODELHOST_MAX_BODY_BYTES":          "2048",
		"MODELHOST_LOG_LEVEL":               "",
	}))
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	want := Config{
		Addr:                 ":7070",
		ModelExtensions:      []string{"gguf", "bin"},
		ForwardPromptOnStart: boolPtr(true),
		EventBuffer:          32,
		MaxBodyBytes:         2048,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("unexpected cfg (-want +got):\n%s", diff)
	}
}

func TestFromEnv_InvalidValues(t *testing.T) {
	_, err := FromEnv(mapLookup(map[string]string{
		"MODELHOST_STOP_GRACE_MS": "soon",
		"MODELHOST_WATCH_MODELS":  "maybe",
	}))
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, name := range []string{"STOP_GRACE_MS", "WATCH_MODELS"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q does not name %s", err, name)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := SplitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}
