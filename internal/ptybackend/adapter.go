// Package ptybackend spawns subprocesses attached to pseudo-terminals
// and delivers their output, exit status, and control operations through
// an asynchronous per-instance event contract. The underlying device is
// a unix pty or a Windows ConPTY, selected once per process by Detect.
package ptybackend

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/xpty"
)

// Package-level logger: the diagnostic channel for expected negatives
// such as "backend unavailable". Low severity only, never fatal.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "pty",
	Level:  log.WarnLevel,
})

// SetLogLevel sets the logging level for the ptybackend package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Adapter is the capability object for spawning PTY sessions. It is
// bound to the single backend kind available in this process; obtain one
// through Detect. The zero value is not usable.
type Adapter struct {
	kind string
}

// Kind identifies the underlying backend ("unix" or "conpty").
func (a *Adapter) Kind() string {
	return a.kind
}

// Spawn starts name with args attached to a freshly allocated
// pseudo-terminal and returns the live instance. Unset options receive
// defaults, and the environment is sanitized before it reaches the
// process-creation call. The returned instance's Pid is readable
// immediately.
func (a *Adapter) Spawn(name string, args []string, opts SpawnOptions) (*Instance, error) {
	opts.applyDefaults()

	p, err := xpty.NewPty(opts.Cols, opts.Rows)
	if err != nil {
		return nil, fmt.Errorf("allocate pty: %w", err)
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(opts.Env, opts.Term)
	configurePTYCommand(cmd)

	if err := p.Start(cmd); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	// Some backends only honor the size once the process is running.
	if err := p.Resize(opts.Cols, opts.Rows); err != nil {
		logger.Debug("post-start resize failed", "error", err)
	}

	inst := newInstance(p, cmd, opts.HandleFlowControl)
	logger.Debug("spawned session", "pid", inst.Pid(), "command", name, "cols", opts.Cols, "rows", opts.Rows)
	return inst, nil
}
