package ptybackend

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/charmbracelet/x/xpty"
)

// drainGrace bounds how long the reaper waits for the reader to drain
// remaining output after the child has exited.
const drainGrace = 500 * time.Millisecond

// ExitStatus describes how a session's child process terminated.
type ExitStatus struct {
	// Code is the process exit code. When the process was killed by a
	// signal the code follows the shell convention of 128+signal.
	Code int
	// Signal is the terminating signal number, or 0 when the process
	// exited on its own.
	Signal int
}

// Instance is one live subprocess attached to a pseudo-terminal. It is
// created by Adapter.Spawn and owned exclusively by the caller that
// spawned it.
//
// Data and exit callbacks are invoked from a single dispatch goroutine
// per instance: they never run concurrently with each other, and no data
// callback fires after the exit callback. Callbacks for different
// instances are not serialized against each other.
type Instance struct {
	pid    int
	pty    xpty.Pty
	cmd    *exec.Cmd
	writer *flowWriter

	mu            sync.Mutex
	dataFns       []func([]byte)
	exitFns       []func(ExitStatus)
	exited        bool
	exitDelivered bool
	status        ExitStatus

	events      chan []byte
	readerDone  chan struct{}
	statusReady chan struct{}
	done        chan struct{}
}

func newInstance(p xpty.Pty, cmd *exec.Cmd, handleFlowControl bool) *Instance {
	i := &Instance{
		pid:         cmd.Process.Pid,
		pty:         p,
		cmd:         cmd,
		writer:      newFlowWriter(p, handleFlowControl),
		events:      make(chan []byte, 32),
		readerDone:  make(chan struct{}),
		statusReady: make(chan struct{}),
		done:        make(chan struct{}),
	}
	go i.readLoop()
	go i.waitLoop()
	go i.dispatchLoop()
	return i
}

// Pid returns the child's process identifier. It is assigned at spawn
// and stable for the lifetime of the instance, including after exit.
func (i *Instance) Pid() int {
	return i.pid
}

// OnData registers fn to receive child output, one call per chunk as it
// becomes available, in production order. Multiple handlers all receive
// every chunk. Chunk boundaries carry no meaning; consumers must treat
// the stream as a plain byte stream.
func (i *Instance) OnData(fn func([]byte)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.dataFns = append(i.dataFns, fn)
}

// OnExit registers fn to be called exactly once, after every buffered
// data chunk has been delivered, with the child's exit status. Handlers
// registered after the exit event has already fired are invoked
// immediately with the recorded status.
func (i *Instance) OnExit(fn func(ExitStatus)) {
	i.mu.Lock()
	if i.exitDelivered {
		st := i.status
		i.mu.Unlock()
		fn(st)
		return
	}
	i.exitFns = append(i.exitFns, fn)
	i.mu.Unlock()
}

// Done returns a channel closed once the exit event has been delivered.
func (i *Instance) Done() <-chan struct{} {
	return i.done
}

// Exited reports whether the child process has terminated.
func (i *Instance) Exited() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.exited
}

// ExitStatus returns the recorded exit status. Only meaningful once
// Done is closed.
func (i *Instance) ExitStatus() ExitStatus {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

// Write enqueues data for the child's input stream. Writes issued after
// exit are silently discarded: callers may race a late write against an
// asynchronous exit event and must not be punished for losing.
func (i *Instance) Write(p []byte) {
	i.mu.Lock()
	if i.exited {
		i.mu.Unlock()
		return
	}
	i.mu.Unlock()
	i.writer.write(p)
}

// Resize updates the pseudo-terminal's reported window size. It is safe
// at any point in the instance's life and has no effect after exit.
func (i *Instance) Resize(cols, rows int) {
	i.mu.Lock()
	if i.exited {
		i.mu.Unlock()
		return
	}
	i.mu.Unlock()
	if err := i.pty.Resize(cols, rows); err != nil {
		logger.Debug("resize failed", "pid", i.pid, "error", err)
	}
}

// Kill requests termination of the child. A nil sig sends the default
// graceful termination signal (SIGHUP on unix). Killing an instance that
// has already exited is a no-op, and killing twice is equivalent to
// killing once.
func (i *Instance) Kill(sig os.Signal) {
	i.mu.Lock()
	if i.exited {
		i.mu.Unlock()
		return
	}
	i.mu.Unlock()

	if sig == nil {
		sig = defaultKillSignal()
	}
	if err := i.cmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
		logger.Debug("kill failed", "pid", i.pid, "signal", sig, "error", err)
	}
}

// readLoop is the single producer of data events: it drains the PTY
// master until the device reports EOF or an error, forwarding each chunk
// through the bounded event channel. Sends block when the channel is
// full, so a slow consumer backpressures the child instead of growing an
// unbounded buffer.
func (i *Instance) readLoop() {
	defer close(i.events)
	defer close(i.readerDone)

	buf := make([]byte, 4096)
	for {
		n, err := i.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			chunk = i.writer.observe(chunk)
			if len(chunk) > 0 {
				i.events <- chunk
			}
		}
		if err != nil {
			if err != io.EOF {
				logger.Debug("pty read ended", "pid", i.pid, "error", err)
			}
			return
		}
	}
}

// waitLoop reaps the child and releases the PTY device. The status is
// recorded before the device is closed so late Write/Resize/Kill calls
// observe the exited state.
func (i *Instance) waitLoop() {
	// xpty.WaitProcess is required for ConPTY; plain cmd.Wait is not
	// sufficient on Windows.
	_ = xpty.WaitProcess(context.Background(), i.cmd)

	st := statusFromState(i.cmd.ProcessState)

	i.mu.Lock()
	i.exited = true
	i.status = st
	i.mu.Unlock()
	close(i.statusReady)

	// Give the reader a chance to drain buffered output before the
	// master is reclaimed. The timeout covers children that pass the
	// slave descriptor on to a still-running grandchild, which would
	// otherwise hold the read open forever.
	select {
	case <-i.readerDone:
	case <-time.After(drainGrace):
	}
	_ = i.pty.Close()
}

// dispatchLoop serializes all callback invocations for this instance:
// every buffered data chunk first, then the exit event exactly once.
func (i *Instance) dispatchLoop() {
	for chunk := range i.events {
		i.mu.Lock()
		fns := make([]func([]byte), len(i.dataFns))
		copy(fns, i.dataFns)
		i.mu.Unlock()
		for _, fn := range fns {
			fn(chunk)
		}
	}

	// The event channel is closed, so every data chunk has been
	// delivered. Wait for the reaper to record the final status before
	// firing the exit event.
	<-i.statusReady

	i.mu.Lock()
	st := i.status
	fns := make([]func(ExitStatus), len(i.exitFns))
	copy(fns, i.exitFns)
	i.exitFns = nil
	i.exitDelivered = true
	i.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
	close(i.done)
}

// statusFromState converts a reaped process state into an ExitStatus,
// mapping signal deaths to the 128+signal convention so kills still
// produce a representative code.
func statusFromState(ps *os.ProcessState) ExitStatus {
	if ps == nil {
		return ExitStatus{Code: -1}
	}
	sig := exitSignal(ps)
	code := ps.ExitCode()
	if code < 0 && sig > 0 {
		code = 128 + sig
	}
	return ExitStatus{Code: code, Signal: sig}
}
