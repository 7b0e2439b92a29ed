// Package main implements ptyhost, the interactive-session supervisor
// for command-line tools. It runs a full-screen, keystroke-driven
// subprocess attached to a pseudo-terminal and can restart itself in a
// fresh child process without losing the user's keyboard input stream.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Gaurav-Gosain/ptyhost/internal/ptybackend"
	"github.com/Gaurav-Gosain/ptyhost/internal/relaunch"
	"github.com/Gaurav-Gosain/ptyhost/internal/termprobe"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var debugMode bool

// exitStatus is the exit code the supervised work unit reports once the
// command tree has finished. Sessions that terminate with
// relaunch.CodeRelaunch propagate it here, asking the supervisor to
// re-execute the host.
var exitStatus int

// stdinSource is where the run command reads keystrokes from. It is the
// supervisor's stdin gate when one could be built, so input ownership
// moves cleanly between this process and relaunched children.
var stdinSource io.Reader = os.Stdin

func main() {
	opts := relaunch.Options{}
	if gate, err := relaunch.NewStdinGate(); err == nil {
		stdinSource = gate
		opts.Gate = gate
	}

	sup := relaunch.New(runCLI, opts)
	os.Exit(sup.Run(context.Background()))
}

// runCLI is the supervised work unit: one full execution of the command
// tree. The returned code is the process exit code, or the relaunch
// sentinel when a session asked for a host restart.
func runCLI(ctx context.Context) (int, error) {
	rootCmd := &cobra.Command{
		Use:   "ptyhost [flags] [-- command [args...]]",
		Short: "Interactive session supervisor",
		Long: `ptyhost - interactive session supervisor

Runs a full-screen, keystroke-driven subprocess (a shell or another
interactive program) attached to a pseudo-terminal, bridging it to the
local terminal. A session that exits with code 75 asks the host to
re-execute itself in a fresh process.`,
		Example: `  # Run your shell in a supervised session
  ptyhost run

  # Run a specific program
  ptyhost run -- htop

  # Force a terminal size
  ptyhost run --cols 120 --rows 40 -- vim

  # Inspect platform capabilities
  ptyhost probe`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), args)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debugMode {
			ptybackend.SetLogLevel(log.DebugLevel)
			relaunch.SetLogLevel(log.DebugLevel)
		}
	}

	runCmd := &cobra.Command{
		Use:   "run [flags] [-- command [args...]]",
		Short: "Run a program in a supervised PTY session",
		Long: `Run a program attached to a pseudo-terminal

With no command, the user's shell is detected ($PTYHOST_SHELL, $SHELL,
then per-platform candidates). The local terminal is put into raw mode
while the session runs, and the session's exit code becomes ptyhost's
exit code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), args)
		},
	}
	runCmd.Flags().IntVar(&flagCols, "cols", 0, "Terminal columns (default: local terminal size)")
	runCmd.Flags().IntVar(&flagRows, "rows", 0, "Terminal rows (default: local terminal size)")
	runCmd.Flags().StringVar(&flagTerm, "term", "", "Terminal type advertised to the session")
	runCmd.Flags().BoolVar(&flagFlowControl, "flow-control", false, "Enable XON/XOFF flow control")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Report PTY and terminal capabilities",
		Long:  `Report whether a PTY backend is available and whether the standard streams are interactive terminals`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe()
		},
	}

	rootCmd.AddCommand(runCmd, probeCmd)

	if err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		return 1, nil
	}
	return exitStatus, nil
}

func runProbe() error {
	backend := "unavailable"
	if adapter := ptybackend.Detect(); adapter != nil {
		backend = "available (" + adapter.Kind() + ")"
	}
	fmt.Printf("pty backend: %s\n", backend)
	fmt.Printf("stdin tty:   %t\n", termprobe.StdinIsTerminal())
	fmt.Printf("stdout tty:  %t\n", termprobe.StdoutIsTerminal())
	return nil
}
