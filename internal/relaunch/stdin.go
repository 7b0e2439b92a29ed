package relaunch

import (
	"errors"
	"os"
	"sync"

	"github.com/muesli/cancelreader"
)

// StdinGate is the default Gate: a cancelable reader over the process's
// standard input that the host uses as its stdin source. Pause cancels
// any in-flight read and blocks new ones; Resume re-arms the reader and
// wakes blocked callers. While paused, a spawned child inheriting the
// real descriptor is the stream's only consumer, so keystrokes are never
// split between parent and child.
type StdinGate struct {
	mu      sync.Mutex
	src     *os.File
	reader  cancelreader.CancelReader
	paused  bool
	resumed chan struct{}
}

// NewStdinGate builds a gate over os.Stdin. It fails only when the
// platform cannot provide a cancelable stdin reader.
func NewStdinGate() (*StdinGate, error) {
	return newStdinGate(os.Stdin)
}

func newStdinGate(src *os.File) (*StdinGate, error) {
	r, err := cancelreader.NewReader(src)
	if err != nil {
		return nil, err
	}
	return &StdinGate{src: src, reader: r}, nil
}

// Read consumes standard input on behalf of the host. Reads issued (or
// in flight) while the gate is paused block until Resume.
func (g *StdinGate) Read(p []byte) (int, error) {
	for {
		g.mu.Lock()
		if g.paused {
			ch := g.resumed
			g.mu.Unlock()
			<-ch
			continue
		}
		r := g.reader
		g.mu.Unlock()

		n, err := r.Read(p)
		if errors.Is(err, cancelreader.ErrCanceled) {
			// Paused mid-read; wait for Resume and retry.
			continue
		}
		return n, err
	}
}

// Pause stops the parent from consuming standard input. Idempotent.
func (g *StdinGate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return
	}
	g.paused = true
	g.resumed = make(chan struct{})
	g.reader.Cancel()
}

// Resume re-arms the reader and wakes blocked Read calls. Idempotent.
func (g *StdinGate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return
	}
	if r, err := cancelreader.NewReader(g.src); err == nil {
		g.reader = r
	}
	g.paused = false
	close(g.resumed)
}
