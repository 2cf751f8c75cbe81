package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"modelhost/internal/launcher"
)

// newDemoWorkerCmd is the target of the demo launch strategy: it prints
// "TOKEN i" lines at an interval and echoes each stdin line as "ECHO <line>".
func newDemoWorkerCmd() *cobra.Command {
	var (
		count    int
		interval time.Duration
		model    string
	)
	cmd := &cobra.Command{
		Use:    "demo-worker",
		Short:  "Synthetic worker used when no real runtime is available",
		Hidden: true,
		Args:   cobra.NoArgs,
		// Skip config and logger setup from the root.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)
			return runDemoWorker(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), model, count, interval, sig)
		},
	}
	cmd.Flags().IntVar(&count, "count", launcher.DefaultDemoCount, "Token lines to print before exiting")
	cmd.Flags().DurationVar(&interval, "interval", launcher.DefaultDemoInterval, "Delay between token lines")
	cmd.Flags().StringVar(&model, "model", "", "Model id (informational)")
	return cmd
}

func runDemoWorker(in io.Reader, out, errOut io.Writer, model string, count int, interval time.Duration, stop <-chan os.Signal) error {
	var mu sync.Mutex
	emit := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format+"\n", args...)
	}

	fmt.Fprintf(errOut, "demo worker for %q: %d tokens every %s\n", model, count, interval)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			emit("ECHO %s", sc.Text())
		}
	}()

	tick := time.NewTicker(interval)
	defer tick.Stop()
	for i := 0; i < count; i++ {
		select {
		case <-stop:
			return nil
		case <-tick.C:
			emit("TOKEN %d", i)
		}
	}
	return nil
}
