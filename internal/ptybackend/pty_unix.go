//go:build !windows

package ptybackend

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configurePTYCommand sets up the command for PTY usage on Unix systems.
// The child gets its own session with the PTY slave as controlling
// terminal, which shells like fish require.
func configurePTYCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true, // Create new session
		Setctty: true, // Set controlling terminal
		Ctty:    0,    // Use stdin (which will be the PTY slave)
	}
}

// defaultKillSignal is the graceful termination default: SIGHUP, the
// signal a real terminal delivers when it hangs up.
func defaultKillSignal() os.Signal {
	return unix.SIGHUP
}

// exitSignal extracts the terminating signal number from a reaped
// process state, or 0 when the process exited normally.
func exitSignal(ps *os.ProcessState) int {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return int(ws.Signal())
	}
	return 0
}
