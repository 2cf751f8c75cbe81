// Package launcher turns a catalog record into the command line that starts a
// worker for it. Resolution walks an ordered list of strategies and returns the
// first one that applies; it only inspects the filesystem and never spawns.
package launcher

import (
	"errors"
	"fmt"
	"strings"

	"modelhost/pkg/types"
)

// Spec is a fully resolved worker command line.
type Spec struct {
	// Path is the executable (absolute path or a name looked up in $PATH).
	Path string
	Args []string
	// Dir is the working directory; empty inherits the daemon's.
	Dir string
	// Shell is set when the command goes through a command interpreter
	// (sh, cmd) rather than executing the target directly.
	Shell bool
	// Strategy names the strategy that produced this spec.
	Strategy string
}

// String renders s for logs. It is not meant to be re-parsed.
func (s Spec) String() string {
	parts := append([]string{s.Path}, s.Args...)
	return strings.Join(parts, " ")
}

// Strategy produces a Spec for records it knows how to launch.
type Strategy interface {
	Name() string
	Resolve(m types.Model) (Spec, bool)
}

// ErrNoStrategy is wrapped by ResolutionError when no strategy applies.
var ErrNoStrategy = errors.New("no launch strategy applies")

// ResolutionError reports that no usable command could be found for a model.
type ResolutionError struct {
	ModelID string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve launch for model %q: %v", e.ModelID, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// IsResolutionError reports whether err is (or wraps) a ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// Resolver tries strategies in order.
type Resolver struct {
	strategies []Strategy
}

// New returns a resolver over the given strategies, tried in argument order.
func New(strategies ...Strategy) *Resolver {
	out := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Resolver{strategies: out}
}

// Resolve returns the first strategy's spec for m.
func (r *Resolver) Resolve(m types.Model) (Spec, error) {
	for _, s := range r.strategies {
		if spec, ok := s.Resolve(m); ok {
			spec.Strategy = s.Name()
			spec.Args = append([]string(nil), spec.Args...)
			return spec, nil
		}
	}
	return Spec{}, &ResolutionError{ModelID: m.ID, Err: ErrNoStrategy}
}

// Names lists strategy names in priority order.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Plan resolves m into the wire shape printed by the CLI and the sanity report.
func (r *Resolver) Plan(m types.Model) types.LaunchPlan {
	spec, err := r.Resolve(m)
	if err != nil {
		return types.LaunchPlan{ModelID: m.ID, Error: err.Error()}
	}
	return types.LaunchPlan{
		ModelID:  m.ID,
		Strategy: spec.Strategy,
		Path:     spec.Path,
		Args:     spec.Args,
		Dir:      spec.Dir,
		Shell:    spec.Shell,
	}
}
