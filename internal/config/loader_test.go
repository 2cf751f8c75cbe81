package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func boolPtr(b bool) *bool { return &b }

func wantLoaded() Config {
	return Config{
		Addr:                 ":9999",
		ModelsDir:            "/tmp/models",
		ModelExtensions:      []string{"gguf"},
		LlamaBin:             "/opt/llama-cli",
		LlamaArgs:            []string{"-ngl", "99"},
		StopGraceMS:          Int(500),
		ForwardPromptOnStart: boolPtr(true),
		WatchModels:          boolPtr(false),
		CORSOrigins:          []string{"http://localhost:3000"},
	}
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: :9999
models_dir: /tmp/models
model_extensions: [gguf]
llama_bin: /opt/llama-cli
llama_args: ["-ngl", "99"]
stop_grace_ms: 500
forward_prompt_on_start: true
watch_models: false
cors_origins: ["http://localhost:3000"]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(wantLoaded(), cfg); diff != "" {
		t.Fatalf("unexpected cfg (-want +got):\n%s", diff)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":9999","models_dir":"/tmp/models","model_extensions":["gguf"],
"llama_bin":"/opt/llama-cli","llama_args":["-ngl","99"],"stop_grace_ms":500,
"forward_prompt_on_start":true,"watch_models":false,"cors_origins":["http://localhost:3000"]}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(wantLoaded(), cfg); diff != "" {
		t.Fatalf("unexpected cfg (-want +got):\n%s", diff)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", `addr = ":9999"
models_dir = "/tmp/models"
model_extensions = ["gguf"]
llama_bin = "/opt/llama-cli"
llama_args = ["-ngl", "99"]
stop_grace_ms = 500
forward_prompt_on_start = true
watch_models = false
cors_origins = ["http://localhost:3000"]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(wantLoaded(), cfg); diff != "" {
		t.Fatalf("unexpected cfg (-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}
