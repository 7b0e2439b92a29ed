package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/Gaurav-Gosain/ptyhost/internal/config"
	"github.com/Gaurav-Gosain/ptyhost/internal/ptybackend"
	"github.com/Gaurav-Gosain/ptyhost/internal/termprobe"
)

// run command flags
var (
	flagCols        int
	flagRows        int
	flagTerm        string
	flagFlowControl bool
)

// runSession bridges the local terminal to a freshly spawned PTY
// session and adopts its exit code.
func runSession(ctx context.Context, args []string) error {
	cfg, err := config.LoadUserConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	adapter := ptybackend.Detect()
	if adapter == nil {
		return fmt.Errorf("interactive PTY support is unavailable on this platform")
	}

	name, cmdArgs := resolveCommand(args, cfg)
	opts := spawnOptions(cfg)

	inst, err := adapter.Spawn(name, cmdArgs, opts)
	if err != nil {
		return fmt.Errorf("spawn session: %w", err)
	}

	// Raw mode only when stdin really is a terminal; piped input still
	// works, it just is not keystroke-driven.
	if termprobe.StdinIsTerminal() {
		if state, err := term.MakeRaw(int(os.Stdin.Fd())); err == nil {
			defer func() {
				_ = term.Restore(int(os.Stdin.Fd()), state)
			}()
		}
	}

	inst.OnData(func(chunk []byte) {
		_, _ = os.Stdout.Write(chunk)
	})

	exitCh := make(chan ptybackend.ExitStatus, 1)
	inst.OnExit(func(st ptybackend.ExitStatus) {
		exitCh <- st
	})

	// Forward keystrokes until the session ends. The reader is the
	// supervisor's stdin gate, so a relaunch can take the stream away
	// without this pump fighting the child for bytes.
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := stdinSource.Read(buf)
			if n > 0 {
				inst.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	stopResize := watchResize(inst)
	defer stopResize()

	var st ptybackend.ExitStatus
	select {
	case st = <-exitCh:
	case <-ctx.Done():
		inst.Kill(nil)
		st = <-exitCh
	}

	// A session exiting with the relaunch sentinel (relaunch.CodeRelaunch)
	// asks the host to re-execute itself; the supervisor in main picks
	// the code up from exitStatus.
	exitStatus = st.Code
	if debugMode && st.Signal != 0 {
		fmt.Fprintf(os.Stderr, "session terminated by signal %d\r\n", st.Signal)
	}
	return nil
}

// resolveCommand picks the program to spawn: explicit args first, then
// the configured shell, then autodetection.
func resolveCommand(args []string, cfg *config.Config) (string, []string) {
	if len(args) > 0 {
		return args[0], args[1:]
	}
	if cfg.Session.Shell != "" {
		return cfg.Session.Shell, nil
	}
	return ptybackend.DetectShell(), nil
}

// spawnOptions merges flags over config over defaults, sizing the
// session to the local terminal when one is attached.
func spawnOptions(cfg *config.Config) ptybackend.SpawnOptions {
	opts := ptybackend.SpawnOptions{
		Term:              cfg.Terminal.Term,
		Cols:              cfg.Terminal.Cols,
		Rows:              cfg.Terminal.Rows,
		HandleFlowControl: cfg.Session.FlowControl || flagFlowControl,
	}

	if termprobe.StdoutIsTerminal() {
		if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			opts.Cols, opts.Rows = cols, rows
		}
	}

	if flagTerm != "" {
		opts.Term = flagTerm
	}
	if flagCols > 0 {
		opts.Cols = flagCols
	}
	if flagRows > 0 {
		opts.Rows = flagRows
	}
	return opts
}
