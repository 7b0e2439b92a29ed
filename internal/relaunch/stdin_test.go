//go:build !windows

package relaunch

import (
	"os"
	"testing"
	"time"
)

// =============================================================================
// Stdin Gate Tests
// =============================================================================

func gateOverPipe(t *testing.T) (*StdinGate, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})

	gate, err := newStdinGate(r)
	if err != nil {
		t.Skipf("cancelable reader unavailable: %v", err)
	}
	return gate, w
}

func readAsync(gate *StdinGate) chan string {
	out := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := gate.Read(buf)
		if err != nil {
			out <- ""
			return
		}
		out <- string(buf[:n])
	}()
	return out
}

func TestStdinGateReadsWhenOpen(t *testing.T) {
	gate, w := gateOverPipe(t)

	out := readAsync(gate)
	if _, err := w.WriteString("keys"); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-out:
		if got != "keys" {
			t.Errorf("expected %q, got %q", "keys", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("read did not complete")
	}
}

func TestStdinGatePauseBlocksReads(t *testing.T) {
	gate, w := gateOverPipe(t)

	gate.Pause()
	out := readAsync(gate)
	if _, err := w.WriteString("held"); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-out:
		t.Fatalf("read completed while paused: %q", got)
	case <-time.After(100 * time.Millisecond):
	}

	gate.Resume()
	select {
	case got := <-out:
		if got != "held" {
			t.Errorf("expected %q after resume, got %q", "held", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("read did not complete after resume")
	}
}

func TestStdinGatePauseCancelsInFlightRead(t *testing.T) {
	gate, w := gateOverPipe(t)

	out := readAsync(gate)
	time.Sleep(50 * time.Millisecond) // let the read block
	gate.Pause()

	select {
	case got := <-out:
		t.Fatalf("in-flight read completed while paused: %q", got)
	case <-time.After(100 * time.Millisecond):
	}

	gate.Resume()
	if _, err := w.WriteString("after"); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-out:
		if got != "after" {
			t.Errorf("expected %q, got %q", "after", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("read did not complete after resume")
	}
}

func TestStdinGatePauseResumeIdempotent(t *testing.T) {
	gate, _ := gateOverPipe(t)

	gate.Pause()
	gate.Pause()
	gate.Resume()
	gate.Resume() // second resume must not panic on a closed channel
}
