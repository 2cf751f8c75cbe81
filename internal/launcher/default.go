package launcher

import "time"

// Options configures the default strategy chain.
type Options struct {
	LlamaBin      string
	LlamaArgs     []string
	DiscoverLlama bool
	// DemoExecutable enables the demo fallback when non-empty.
	DemoExecutable string
	DemoCount      int
	DemoInterval   time.Duration
}

// Default builds wrapper script → local binary → demo.
func Default(o Options) *Resolver {
	return New(
		NewWrapperScript(),
		LocalBinary{Bin: o.LlamaBin, ExtraArgs: o.LlamaArgs, Discover: o.DiscoverLlama},
		Demo{Executable: o.DemoExecutable, Count: o.DemoCount, Interval: o.DemoInterval},
	)
}
