//go:build !windows

package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/ptyhost/internal/ptybackend"
)

// watchResize propagates local terminal size changes to the session via
// SIGWINCH. The returned func stops the watcher.
func watchResize(inst *ptybackend.Instance) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGWINCH)

	go func() {
		for range ch {
			if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				inst.Resize(cols, rows)
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
