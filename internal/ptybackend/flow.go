package ptybackend

import (
	"io"
	"sync"
)

// XON/XOFF software flow control bytes (DC1/DC3).
const (
	flowResume = 0x11
	flowPause  = 0x13
)

// flowWriter queues writes destined for the child's input stream and,
// when flow control is enabled, honors XON/XOFF signals observed on the
// child's output: writes issued while paused are held back and flushed
// once the child resumes. Without this, a child that pauses input could
// have data silently dropped or could deadlock on a full input buffer.
type flowWriter struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	paused  bool
	pending [][]byte
}

func newFlowWriter(out io.Writer, enabled bool) *flowWriter {
	return &flowWriter{out: out, enabled: enabled}
}

// write delivers p to the child, or queues it while paused. Errors from
// the underlying PTY are absorbed: late writes racing the child's exit
// must be no-ops.
func (w *flowWriter) write(p []byte) {
	if len(p) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.enabled && w.paused {
		buf := make([]byte, len(p))
		copy(buf, p)
		w.pending = append(w.pending, buf)
		return
	}
	_, _ = w.out.Write(p)
}

// observe scans a chunk of child output for flow-control bytes and
// returns the chunk with those bytes removed. A pause byte suspends
// queued writes; a resume byte flushes everything held back, in order.
// When flow control is disabled the chunk passes through untouched.
func (w *flowWriter) observe(p []byte) []byte {
	if !w.enabled {
		return p
	}

	filtered := p[:0:len(p)]
	for _, b := range p {
		switch b {
		case flowPause:
			w.mu.Lock()
			w.paused = true
			w.mu.Unlock()
		case flowResume:
			w.flush()
		default:
			filtered = append(filtered, b)
		}
	}
	return filtered
}

func (w *flowWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paused = false
	for _, buf := range w.pending {
		_, _ = w.out.Write(buf)
	}
	w.pending = nil
}
