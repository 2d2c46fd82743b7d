package wheelmk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRepairOutput is reported when the repair tool succeeded but did not
// write any file.
var ErrNoRepairOutput = errors.New("repair tool produced no output")

// CmdError is returned when an external command fails.
type CmdError struct {
	Cmd    string
	Dir    string
	Output []byte
	Err    error
}

func (e *CmdError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Cmd, e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		sb.WriteString("\n")
		sb.WriteString(out)
	}
	return sb.String()
}

func (e *CmdError) Unwrap() error { return e.Err }

// CompileError is the fatal failure of the native build. No artefact exists
// when it is returned.
type CompileError struct {
	Version string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("go build of version %s failed: %s", e.Version, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
