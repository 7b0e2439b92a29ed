// Package termprobe answers whether the process's standard streams are
// connected to an interactive terminal. Pure queries, no state: a
// primary check against the stream's descriptor with a raw-descriptor
// fallback, and every failure collapses to false rather than an error.
package termprobe

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// StdinIsTerminal reports whether standard input is an interactive
// terminal.
func StdinIsTerminal() bool {
	return isTerminal(os.Stdin, 0)
}

// StdoutIsTerminal reports whether standard output is an interactive
// terminal.
func StdoutIsTerminal() bool {
	return isTerminal(os.Stdout, 1)
}

// isTerminal probes f, falling back to the raw descriptor when the file
// is unusable. Probe panics (a closed or hijacked descriptor on some
// platforms) count as "not a terminal".
func isTerminal(f *os.File, fallbackFd uintptr) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	if f != nil && term.IsTerminal(int(f.Fd())) {
		return true
	}
	return isatty.IsTerminal(fallbackFd) || isatty.IsCygwinTerminal(fallbackFd)
}
