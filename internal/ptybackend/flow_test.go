package ptybackend

import (
	"bytes"
	"testing"
)

// =============================================================================
// Flow Control Tests
// =============================================================================

func TestFlowWriterDisabledPassthrough(t *testing.T) {
	var out bytes.Buffer
	w := newFlowWriter(&out, false)

	chunk := w.observe([]byte{'a', flowPause, 'b'})
	if !bytes.Equal(chunk, []byte{'a', flowPause, 'b'}) {
		t.Errorf("disabled flow control must not touch output, got %v", chunk)
	}

	w.write([]byte("hello"))
	if out.String() != "hello" {
		t.Errorf("expected direct write, got %q", out.String())
	}
}

func TestFlowWriterPausesAndFlushes(t *testing.T) {
	var out bytes.Buffer
	w := newFlowWriter(&out, true)

	w.observe([]byte{flowPause})
	w.write([]byte("one"))
	w.write([]byte("two"))
	if out.Len() != 0 {
		t.Errorf("writes while paused must be held back, got %q", out.String())
	}

	w.observe([]byte{flowResume})
	if out.String() != "onetwo" {
		t.Errorf("expected queued writes flushed in order, got %q", out.String())
	}

	w.write([]byte("three"))
	if out.String() != "onetwothree" {
		t.Errorf("expected direct write after resume, got %q", out.String())
	}
}

func TestFlowWriterStripsControlBytes(t *testing.T) {
	var out bytes.Buffer
	w := newFlowWriter(&out, true)

	chunk := w.observe([]byte{'a', flowPause, 'b', flowResume, 'c'})
	if string(chunk) != "abc" {
		t.Errorf("expected control bytes stripped, got %q", string(chunk))
	}
}

func TestFlowWriterPauseIsStateful(t *testing.T) {
	var out bytes.Buffer
	w := newFlowWriter(&out, true)

	// Pause arrives in one chunk, the resume in a later one.
	w.observe([]byte{flowPause})
	w.write([]byte("queued"))
	w.observe([]byte("interleaved output"))
	if out.Len() != 0 {
		t.Error("ordinary output must not resume a paused writer")
	}

	w.observe([]byte{flowResume})
	if out.String() != "queued" {
		t.Errorf("expected flush after resume, got %q", out.String())
	}
}
