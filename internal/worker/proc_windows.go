//go:build windows

package worker

import (
	"errors"
	"os"
	"os/exec"
)

func setProcAttrs(cmd *exec.Cmd) {}

// Windows has no SIGTERM for console processes; termination goes straight to Kill.
func interruptProcess(cmd *exec.Cmd) error {
	return errors.New("interrupt not supported on windows")
}

func killProcess(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	return cmd.Process.Kill()
}
