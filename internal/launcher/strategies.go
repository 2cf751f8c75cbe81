package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"modelhost/internal/common/fsutil"
	"modelhost/pkg/types"
)

// Strategy names.
const (
	NameWrapperScript = "wrapper-script"
	NameLocalBinary   = "local-binary"
	NameDemo          = "demo"
)

// Script is a wrapper script name recognized inside a packaged model, plus the
// interpreter that runs it.
type Script struct {
	Name        string
	Interpreter string
	// InterpreterArgs precede the script path (e.g. "/C" for cmd).
	InterpreterArgs []string
}

// DefaultScripts returns the wrapper scripts for goos in priority order.
func DefaultScripts(goos string) []Script {
	if goos == "windows" {
		return []Script{
			{Name: "run.bat", Interpreter: "cmd", InterpreterArgs: []string{"/C"}},
			{Name: "run.sh", Interpreter: "sh"},
		}
	}
	return []Script{{Name: "run.sh", Interpreter: "sh"}}
}

// WrapperScript launches a script shipped inside a packaged model directory.
type WrapperScript struct {
	Scripts []Script
}

// NewWrapperScript returns the strategy with the current platform's scripts.
func NewWrapperScript() WrapperScript { return WrapperScript{Scripts: DefaultScripts(runtime.GOOS)} }

func (WrapperScript) Name() string { return NameWrapperScript }

func (w WrapperScript) Resolve(m types.Model) (Spec, bool) {
	if !fsutil.IsDir(m.Path) {
		return Spec{}, false
	}
	for _, s := range w.Scripts {
		p := filepath.Join(m.Path, s.Name)
		if !fsutil.IsFile(p) {
			continue
		}
		args := append(append([]string(nil), s.InterpreterArgs...), p)
		return Spec{Path: s.Interpreter, Args: args, Dir: m.Path, Shell: true}, true
	}
	return Spec{}, false
}

// LocalBinary launches a llama.cpp-style CLI at a configured location with
// "-m <model> --stream". When Bin is empty and Discover is set, well-known
// install locations and $PATH are searched.
type LocalBinary struct {
	Bin       string
	ExtraArgs []string
	Discover  bool
}

func (LocalBinary) Name() string { return NameLocalBinary }

func (l LocalBinary) Resolve(m types.Model) (Spec, bool) {
	bin := l.Bin
	if bin != "" {
		if p, err := fsutil.ExpandHome(bin); err == nil {
			bin = p
		}
	} else if l.Discover {
		bin = discoverLlamaBin()
	}
	if bin == "" || !fsutil.IsFile(bin) {
		return Spec{}, false
	}
	args := []string{"-m", m.Path, "--stream"}
	args = append(args, l.ExtraArgs...)
	return Spec{Path: bin, Args: args}, true
}

func discoverLlamaBin() string {
	exe := "llama-cli"
	if runtime.GOOS == "windows" {
		exe = "llama-cli.exe"
	}
	home, _ := os.UserHomeDir()
	candidates := []string{
		filepath.Join("bin", exe),
		filepath.Join(home, "apps", "llama.cpp", "build", "bin", exe),
		"/usr/local/bin/llama-cli",
		"/opt/homebrew/bin/llama-cli",
	}
	for _, p := range candidates {
		if fsutil.IsFile(p) {
			return p
		}
	}
	if lp, err := exec.LookPath(exe); err == nil {
		return lp
	}
	return ""
}

// Demo runs the host binary's hidden demo-worker subcommand, which prints
// synthetic token lines for a fixed count and then exits. It always applies,
// so it belongs last in the strategy list.
type Demo struct {
	// Executable is the path of the modelhost binary.
	Executable string
	Count      int
	Interval   time.Duration
}

// Demo defaults.
const (
	DefaultDemoCount    = 200
	DefaultDemoInterval = 120 * time.Millisecond
)

func (Demo) Name() string { return NameDemo }

func (d Demo) Resolve(m types.Model) (Spec, bool) {
	if d.Executable == "" {
		return Spec{}, false
	}
	count := d.Count
	if count <= 0 {
		count = DefaultDemoCount
	}
	interval := d.Interval
	if interval <= 0 {
		interval = DefaultDemoInterval
	}
	args := []string{
		"demo-worker",
		"--count", fmt.Sprint(count),
		"--interval", interval.String(),
		"--model", m.ID,
	}
	return Spec{Path: d.Executable, Args: args}, true
}
