package ptybackend

import (
	"runtime"
	"sync"

	"github.com/charmbracelet/x/xpty"
)

// Capabilities reports whether the hosting runtime exposes the process
// and terminal primitives the backend depends on. It is a runtime
// identity check, not an OS feature probe, and is injectable so tests
// can exercise the unavailable branch.
type Capabilities func() bool

// runtimeSupported is the default capability check: every port with a
// real process model qualifies; wasm and plan9 do not.
func runtimeSupported() bool {
	switch runtime.GOOS {
	case "js", "wasip1", "plan9":
		return false
	}
	return true
}

var (
	detectOnce sync.Once
	detected   *Adapter
)

// Detect returns the PTY adapter for this process, or nil when the
// runtime cannot support one. Unavailability is a normal outcome, never
// an error: callers are expected to treat a nil adapter as the signal to
// fall back to non-interactive I/O. The result is memoized for the
// process lifetime.
func Detect() *Adapter {
	detectOnce.Do(func() {
		detected = DetectWith(runtimeSupported)
	})
	return detected
}

// DetectWith is Detect with an injected capability check and without
// memoization. Construction failures are converted to nil and reported
// on the diagnostic channel only.
func DetectWith(caps Capabilities) *Adapter {
	if !caps() {
		logger.Debug("pty backend unavailable", "goos", runtime.GOOS)
		return nil
	}
	a, err := newAdapter()
	if err != nil {
		logger.Debug("pty backend construction failed", "error", err)
		return nil
	}
	return a
}

// newAdapter constructs the adapter, verifying once that a device can
// actually be allocated: a capable-looking runtime may still lack pty
// support (no /dev/ptmx, missing ConPTY API).
func newAdapter() (*Adapter, error) {
	p, err := xpty.NewPty(DefaultCols, DefaultRows)
	if err != nil {
		return nil, err
	}
	_ = p.Close()

	kind := "unix"
	if runtime.GOOS == "windows" {
		kind = "conpty"
	}
	return &Adapter{kind: kind}, nil
}
