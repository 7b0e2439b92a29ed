// Package relaunch re-executes the hosting program in a fresh child
// process when its work unit asks for it with a reserved exit code.
// Certain startup flags only take effect by restarting the process
// runtime itself; the supervisor turns that in-process decision into a
// new OS process while keeping ownership of standard input coherent
// across the parent/child boundary.
package relaunch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

const (
	// CodeRelaunch is the reserved exit code meaning "re-run me in a new
	// process, do not treat this as final". The value is EX_TEMPFAIL from
	// BSD sysexits, the closest existing convention to "temporary, retry".
	// The work unit and the supervisor agree on it by being compiled from
	// the same tree; there is no negotiation, so the program must never
	// use it as a genuine success or failure status.
	CodeRelaunch = 75

	// CodeFailure is the fixed exit code for faults inside the relaunch
	// loop itself. Such faults are fatal, not retried: a supervisor that
	// cannot supervise should not continue.
	CodeFailure = 1
)

const (
	// EnvDisable, when set at process start, disables the supervisor
	// outright: the work unit runs once and its code passes through.
	EnvDisable = "PTYHOST_NO_RELAUNCH"

	// EnvChildMarker is set on every spawned child so a misbehaving child
	// cannot start a relaunch chain of its own. A child that still wants
	// a restart exits with CodeRelaunch, which the parent loop observes.
	EnvChildMarker = "PTYHOST_RELAUNCHED"
)

// Package-level logger for relaunch diagnostics and failures.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "relaunch",
	Level:  log.WarnLevel,
})

// SetLogLevel sets the logging level for the relaunch package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Runner is the supervised unit of work. It returns the process exit
// code it wants, or an error for an unrecoverable failure.
type Runner func(ctx context.Context) (int, error)

// Gate serializes ownership of standard input across the parent/child
// boundary in time: Pause before a child spawns, Resume once it has
// fully terminated. The stream is never consumed by both at once.
type Gate interface {
	Pause()
	Resume()
}

// nopGate is used when the host has no stdin pump to hand over.
type nopGate struct{}

func (nopGate) Pause()  {}
func (nopGate) Resume() {}

// Options configures a Supervisor. The zero value is usable.
type Options struct {
	// ExtraArgs are appended to the current argv when spawning the
	// child, realizing the "restart with different runtime flags" case.
	ExtraArgs []string
	// Gate is the stdin ownership gate. Defaults to a no-op.
	Gate Gate
	// Standalone reports whether this invocation is a self-contained
	// binary for which an identical re-invocation cannot change
	// anything. Defaults to the platform detection in standalone.go.
	Standalone func() bool
	// Spawn re-executes the program and returns the child's exit code.
	// Defaults to spawning the current executable with inherited
	// standard streams. Injectable for tests.
	Spawn func(ctx context.Context) (int, error)
}

// Supervisor runs a work unit and restarts the program around it.
type Supervisor struct {
	runner Runner
	opts   Options
}

// New builds a supervisor around runner.
func New(runner Runner, opts Options) *Supervisor {
	if opts.Gate == nil {
		opts.Gate = nopGate{}
	}
	if opts.Standalone == nil {
		opts.Standalone = standaloneInvocation
	}
	s := &Supervisor{runner: runner, opts: opts}
	if s.opts.Spawn == nil {
		s.opts.Spawn = s.spawnSelf
	}
	return s
}

// Run executes the work unit and drives the relaunch loop. The returned
// value is the exit code the whole process should terminate with; the
// caller passes it to os.Exit.
//
// Both suspension points (the work unit and a spawned child) are
// cancellable only by the host process terminating. Interrupts delivered
// to the parent reach the child through normal process-group delivery
// and are deliberately not intercepted here.
func (s *Supervisor) Run(ctx context.Context) int {
	code, err := s.runner(ctx)
	if err != nil {
		logger.Error("session failed", "error", err)
		return CodeFailure
	}

	if s.inert() {
		// Sentinel codes pass through verbatim: when this process is
		// itself a relaunched child, its parent's loop interprets them.
		return code
	}

	for code == CodeRelaunch {
		if s.opts.Standalone() && len(s.opts.ExtraArgs) == 0 {
			// Re-invoking a self-contained binary identically to itself
			// can never satisfy the reason for the relaunch; doing so
			// anyway would loop forever.
			logger.Debug("standalone invocation, relaunch skipped")
			break
		}

		child, err := s.spawnGated(ctx)
		if err != nil {
			logger.Error("failed to relaunch", "error", err)
			return CodeFailure
		}
		code = child
	}
	return code
}

func (s *Supervisor) inert() bool {
	return os.Getenv(EnvDisable) != "" || os.Getenv(EnvChildMarker) != ""
}

// spawnGated hands stdin to the child for the duration of its lifetime.
// Resume runs on every exit path, including spawn failure: a parent
// that keeps stdin paused after the child is gone goes deaf.
func (s *Supervisor) spawnGated(ctx context.Context) (code int, err error) {
	s.opts.Gate.Pause()
	defer s.opts.Gate.Resume()
	return s.opts.Spawn(ctx)
}

// spawnSelf re-executes the current program as a child with the same
// argv plus ExtraArgs, inheriting the standard streams directly, and
// waits for it to terminate.
func (s *Supervisor) spawnSelf(ctx context.Context) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("resolve executable: %w", err)
	}

	args := make([]string, 0, len(os.Args)-1+len(s.opts.ExtraArgs))
	args = append(args, os.Args[1:]...)
	args = append(args, s.opts.ExtraArgs...)

	logger.Debug("relaunching", "exe", exe, "args", args)

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), EnvChildMarker+"=1")

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 0, fmt.Errorf("run %s: %w", exe, err)
	}
	return 0, nil
}
