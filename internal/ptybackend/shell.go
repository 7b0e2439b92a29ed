package ptybackend

import (
	"os"
	"os/exec"
	"runtime"
)

// EnvShellOverride names the environment variable that bypasses shell
// autodetection entirely. It must point at an executable.
const EnvShellOverride = "PTYHOST_SHELL"

// DetectShell resolves the program a session should run when the caller
// does not name one: the explicit override first, then $SHELL, then a
// per-OS candidate list, with a hard fallback that always exists.
func DetectShell() string {
	if shell := os.Getenv(EnvShellOverride); shell != "" {
		return shell
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	if runtime.GOOS == "windows" {
		shells := []string{
			"powershell.exe",
			"pwsh.exe", // PowerShell Core/7+
			"cmd.exe",
		}
		for _, shell := range shells {
			if _, err := exec.LookPath(shell); err == nil {
				return shell
			}
		}
		return "cmd.exe"
	}

	shells := []string{"/bin/bash", "/bin/zsh", "/bin/fish", "/bin/sh"}
	for _, shell := range shells {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}
