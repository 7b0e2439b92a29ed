//go:build windows

package ptybackend

import (
	"os"
	"os/exec"
)

// configurePTYCommand sets up the command for PTY usage on Windows.
// ConPTY performs its own session setup, so no SysProcAttr is needed.
func configurePTYCommand(cmd *exec.Cmd) {}

// defaultKillSignal on Windows is os.Kill; there is no cross-process
// graceful signal to send through the Go runtime.
func defaultKillSignal() os.Signal {
	return os.Kill
}

// exitSignal always reports 0 on Windows: termination signals are a
// unix concept.
func exitSignal(ps *os.ProcessState) int {
	return 0
}
