package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"modelhost/pkg/types"
)

func writeFile(t *testing.T, p string) {
	t.Helper()
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
}

func pkgModel(t *testing.T) types.Model {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "beta")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return types.Model{ID: "beta", Name: "beta", Path: dir, Kind: types.KindPackage}
}

func TestWrapperScript_UnixPrefersRunSh(t *testing.T) {
	m := pkgModel(t)
	writeFile(t, filepath.Join(m.Path, "run.sh"))
	writeFile(t, filepath.Join(m.Path, "run.bat"))
	spec, ok := WrapperScript{Scripts: DefaultScripts("linux")}.Resolve(m)
	if !ok {
		t.Fatalf("expected wrapper script to apply")
	}
	want := Spec{Path: "sh", Args: []string{filepath.Join(m.Path, "run.sh")}, Dir: m.Path, Shell: true}
	if !reflect.DeepEqual(spec, want) {
		t.Fatalf("got %+v want %+v", spec, want)
	}
}

func TestWrapperScript_WindowsUsesCmd(t *testing.T) {
	m := pkgModel(t)
	writeFile(t, filepath.Join(m.Path, "run.bat"))
	spec, ok := WrapperScript{Scripts: DefaultScripts("windows")}.Resolve(m)
	if !ok {
		t.Fatalf("expected run.bat to apply")
	}
	if spec.Path != "cmd" || len(spec.Args) != 2 || spec.Args[0] != "/C" || !spec.Shell {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestWrapperScript_SkipsFilesAndEmptyPackages(t *testing.T) {
	w := WrapperScript{Scripts: DefaultScripts("linux")}
	if _, ok := w.Resolve(pkgModel(t)); ok {
		t.Fatalf("empty package should not resolve")
	}
	f := filepath.Join(t.TempDir(), "alpha.gguf")
	writeFile(t, f)
	if _, ok := w.Resolve(types.Model{ID: "alpha", Path: f}); ok {
		t.Fatalf("file model should not resolve via wrapper")
	}
}

func TestLocalBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "llama-cli")
	writeFile(t, bin)
	m := types.Model{ID: "alpha", Path: "/models/alpha.gguf"}

	spec, ok := LocalBinary{Bin: bin, ExtraArgs: []string{"-t", "4"}}.Resolve(m)
	if !ok {
		t.Fatalf("expected local binary to apply")
	}
	want := []string{"-m", "/models/alpha.gguf", "--stream", "-t", "4"}
	if spec.Path != bin || !reflect.DeepEqual(spec.Args, want) || spec.Shell {
		t.Fatalf("unexpected spec: %+v", spec)
	}

	if _, ok := (LocalBinary{Bin: filepath.Join(t.TempDir(), "missing")}).Resolve(m); ok {
		t.Fatalf("missing binary should not apply")
	}
	if _, ok := (LocalBinary{}).Resolve(m); ok {
		t.Fatalf("empty bin without discovery should not apply")
	}
}

func TestDemo_BuildsArgv(t *testing.T) {
	d := Demo{Executable: "/usr/bin/modelhost", Count: 3, Interval: 10 * time.Millisecond}
	spec, ok := d.Resolve(types.Model{ID: "it's \"quoted\""})
	if !ok {
		t.Fatalf("demo should always apply")
	}
	want := []string{"demo-worker", "--count", "3", "--interval", "10ms", "--model", "it's \"quoted\""}
	if !reflect.DeepEqual(spec.Args, want) {
		t.Fatalf("args = %q, want %q", spec.Args, want)
	}
	if _, ok := (Demo{}).Resolve(types.Model{ID: "x"}); ok {
		t.Fatalf("demo without executable should not apply")
	}
}

func TestResolver_OrderAndFallback(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "llama-cli")
	writeFile(t, bin)
	r := Default(Options{LlamaBin: bin, DemoExecutable: "/bin/modelhost"})

	m := pkgModel(t)
	spec, err := r.Resolve(m)
	if err != nil || spec.Strategy != NameLocalBinary {
		t.Fatalf("package without script should use local binary, got %+v err=%v", spec, err)
	}

	writeFile(t, filepath.Join(m.Path, DefaultScripts("linux")[0].Name))
	if spec, _ := New(WrapperScript{Scripts: DefaultScripts("linux")}, LocalBinary{Bin: bin}).Resolve(m); spec.Strategy != NameWrapperScript {
		t.Fatalf("wrapper script should win, got %+v", spec)
	}

	r = Default(Options{DemoExecutable: "/bin/modelhost"})
	if spec, _ := r.Resolve(types.Model{ID: "a", Path: "/nope/a.gguf"}); spec.Strategy != NameDemo {
		t.Fatalf("expected demo fallback, got %+v", spec)
	}
}

func TestResolver_NoStrategy(t *testing.T) {
	r := New(LocalBinary{})
	_, err := r.Resolve(types.Model{ID: "a"})
	if !IsResolutionError(err) || !errors.Is(err, ErrNoStrategy) {
		t.Fatalf("expected ResolutionError wrapping ErrNoStrategy, got %v", err)
	}
	plan := r.Plan(types.Model{ID: "a"})
	if plan.Error == "" || plan.Strategy != "" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
}

func TestResolver_IsDeterministic(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "llama-cli")
	writeFile(t, bin)
	r := Default(Options{LlamaBin: bin})
	m := types.Model{ID: "a", Path: "/m/a.gguf"}
	a, _ := r.Resolve(m)
	b, _ := r.Resolve(m)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("resolution not deterministic: %+v vs %+v", a, b)
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{NameWrapperScript, NameLocalBinary, NameDemo}) {
		t.Fatalf("names = %v", got)
	}
}
