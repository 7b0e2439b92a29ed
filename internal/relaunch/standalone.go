package relaunch

import (
	"os"
	"path/filepath"
	"strings"
)

// standaloneInvocation reports whether the running program is a
// self-contained installed binary rather than a source-driven one.
//
// The detection is path-prefix based and inherently packaging-specific:
// `go run` stages its binary in a go-build directory under the os temp
// dir, so an executable living there is source-driven and a fresh child
// process can pick up a rebuilt binary. Anything else is treated as
// self-contained. Revisit the patterns if the packaging strategy for
// distributable binaries changes.
func standaloneInvocation() bool {
	exe, err := os.Executable()
	if err != nil {
		// Cannot tell; assume self-contained, the conservative choice
		// for the relaunch loop.
		return true
	}
	return !isSourceDriven(exe)
}

func isSourceDriven(exe string) bool {
	tmp := os.TempDir()
	rel, err := filepath.Rel(tmp, exe)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return strings.Contains(filepath.ToSlash(rel), "go-build")
}
