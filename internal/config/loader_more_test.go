package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_MissingFileKeepsNotExist(t *testing.T) {
	_, err := Load("/definitely/not/a/real/modelhost-12345.yaml")
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoad_MalformedFilesNamePath(t *testing.T) {
	cases := []struct{ name, body string }{
		{"bad.yaml", "addr: :8080\n: broken\n"},
		{"bad.yml", "stop_grace_ms: soon\n"},
		{"bad.json", `{ "addr": ":8080", "models_dir": }`},
		{"types.json", `{ "forward_prompt_on_start": "yes" }`},
		{"bad.toml", "addr=:8080\nmodels_dir\n"},
		{"types.toml", "event_buffer = \"lots\"\n"},
	}
	d := t.TempDir()
	for _, tc := range cases {
		p := writeTempFile(t, d, tc.name, tc.body)
		_, err := Load(p)
		if err == nil {
			t.Fatalf("%s: expected parse error", tc.name)
		}
		if !strings.Contains(err.Error(), p) {
			t.Fatalf("%s: error %q does not name the file", tc.name, err)
		}
	}
}
