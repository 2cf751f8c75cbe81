package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modelhost/internal/common/fsutil"
	"modelhost/pkg/types"
)

// DefaultExtensions are the model file extensions recognized when none are configured.
var DefaultExtensions = []string{"gguf", "bin", "pt"}

// DiscoveryError reports a models directory that could not be read.
// Scan still returns a usable (empty) snapshot alongside it.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover models in %s: %v", e.Dir, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// Snapshot maps model id to record. It is rebuilt wholesale on every scan.
type Snapshot map[string]types.Model

// Scan lists dir and builds a snapshot. Regular files with a recognized extension
// are keyed by their name without extension; directories are packaged models keyed
// by directory name. Hidden entries and entries that fail inspection are skipped.
func Scan(dir string, extensions []string) (Snapshot, error) {
	snap := Snapshot{}
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return snap, &DiscoveryError{Dir: dir, Err: err}
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return snap, &DiscoveryError{Dir: abs, Err: err}
	}
	allowed := extensionSet(extensions)
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		p := filepath.Join(abs, name)
		// Follow symlinks so linked model files and packages are discovered.
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		switch {
		case fi.IsDir():
			snap[name] = types.Model{ID: name, Name: name, Path: p, Kind: types.KindPackage}
		case fi.Mode().IsRegular():
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
			if _, ok := allowed[ext]; !ok {
				continue
			}
			id := strings.TrimSuffix(name, filepath.Ext(name))
			if id == "" {
				continue
			}
			snap[id] = types.Model{ID: id, Name: name, Path: p, Kind: types.KindFile, SizeBytes: fi.Size()}
		}
	}
	return snap, nil
}

func extensionSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, x := range exts {
		x = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(x), "."))
		if x != "" {
			set[x] = struct{}{}
		}
	}
	return set
}
