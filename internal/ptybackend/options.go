package ptybackend

import (
	"os"
	"sort"
	"strings"
)

// Default spawn parameters, applied when the caller leaves the
// corresponding option unset.
const (
	DefaultTerm = "xterm-256color"
	DefaultCols = 80
	DefaultRows = 24
)

// SpawnOptions configures a new PTY session.
type SpawnOptions struct {
	// Term is the value advertised to the child via $TERM.
	Term string
	// Cols and Rows are the initial window size in character cells.
	Cols int
	Rows int
	// Dir is the child's working directory ("" = inherit).
	Dir string
	// Env is the child's environment. A nil map inherits the current
	// process environment. Entries with a nil value are treated as unset
	// and dropped before the environment reaches the process-creation
	// call, which accepts string values only.
	Env map[string]*string
	// HandleFlowControl enables XON/XOFF handling: XOFF from the child
	// pauses delivery of queued writes until the child sends XON.
	HandleFlowControl bool
}

func (o *SpawnOptions) applyDefaults() {
	if o.Term == "" {
		o.Term = DefaultTerm
	}
	if o.Cols <= 0 {
		o.Cols = DefaultCols
	}
	if o.Rows <= 0 {
		o.Rows = DefaultRows
	}
}

// buildEnv flattens the option environment into the KEY=VALUE form the
// process-creation call expects. Nil values are dropped, each key appears
// exactly once, and the result is sorted for deterministic spawns. The
// terminal type always wins over an inherited or caller-supplied TERM.
func buildEnv(env map[string]*string, term string) []string {
	m := make(map[string]string, len(env))
	if env == nil {
		for _, kv := range os.Environ() {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				continue
			}
			m[k] = v
		}
	} else {
		for k, v := range env {
			if v == nil || k == "" {
				continue
			}
			m[k] = *v
		}
	}
	if term != "" {
		m["TERM"] = term
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}
