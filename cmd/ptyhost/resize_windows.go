//go:build windows

package main

import (
	"github.com/Gaurav-Gosain/ptyhost/internal/ptybackend"
)

// watchResize is a no-op on Windows: there is no SIGWINCH equivalent to
// subscribe to, and ConPTY clients poll size themselves.
func watchResize(inst *ptybackend.Instance) func() {
	return func() {}
}
