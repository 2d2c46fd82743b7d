package wheelmk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// CmdOp runs an external command synchronously in the process environment of
// the [wheelkore.Env] it is done with.
type CmdOp struct {
	CWD  string
	Exe  string
	Args []string
	Desc string

	// Prefix is written in front of each line the command writes to the
	// Env's Out and Err.
	Prefix string
}

var _ wheelkore.Operation = (*CmdOp)(nil)

func (op *CmdOp) Describe(*wheelkore.Env) string {
	if op.Desc == "" {
		return CmdLine(filepath.Base(op.Exe), op.Args...)
	}
	return op.Desc
}

// Do runs the command with its output passed to env.
func (op *CmdOp) Do(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env) error {
	cmd := op.command(ctx, tr, env)
	if env != nil {
		cmd.Stdin = env.In
		cmd.Stdout = op.writer(env.Out)
		cmd.Stderr = op.writer(env.Err)
	}
	return op.run(tr, cmd, nil)
}

// Output runs the command and returns what it writes to stdout. Stderr is
// only reported with the error.
func (op *CmdOp) Output(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := op.command(ctx, tr, env)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := op.run(tr, cmd, stderr.Bytes)
	return stdout.Bytes(), err
}

// CombinedOutput runs the command and returns stdout and stderr interleaved.
func (op *CmdOp) CombinedOutput(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env) ([]byte, error) {
	var out bytes.Buffer
	cmd := op.command(ctx, tr, env)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := op.run(tr, cmd, out.Bytes)
	return out.Bytes(), err
}

func (op *CmdOp) command(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env) *exec.Cmd {
	cmd := exec.CommandContext(ctx, op.Exe, op.Args...)
	cmd.Dir = op.CWD
	if env != nil {
		xenv, err := env.ExecEnv()
		if err != nil {
			tr.Warn(err.Error(), slog.String("cmd", op.Describe(env)))
		}
		cmd.Env = xenv
	}
	return cmd
}

func (op *CmdOp) run(tr *wheelkore.Trace, cmd *exec.Cmd, output func() []byte) error {
	tr.Debug("exec `cmd` in `dir`",
		slog.String("cmd", cmd.String()),
		slog.String("dir", cmd.Dir),
	)
	if err := cmd.Run(); err != nil {
		tr.Debug("failed `cmd` in `dir` with `error`",
			slog.String("cmd", cmd.String()),
			slog.String("dir", cmd.Dir),
			slog.String("error", err.Error()),
		)
		cerr := &CmdError{Cmd: op.Describe(nil), Dir: cmd.Dir, Err: err}
		if output != nil {
			cerr.Output = bytes.Clone(output())
		}
		return cerr
	}
	return nil
}

func (op *CmdOp) writer(w io.Writer) io.Writer {
	if w == nil {
		return nil
	}
	if op.Prefix == "" {
		return w
	}
	return newPrefixWriterString(w, op.Prefix)
}

// LookTool finds the executable of an external tool.
func LookTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH", name)
	}
	return path, nil
}

// CmdLine renders a command line for log messages. Arguments containing
// blanks are quoted.
func CmdLine(exe string, args ...string) string {
	var sb strings.Builder
	sb.WriteString(exe)
	for _, arg := range args {
		sb.WriteByte(' ')
		if arg == "" || strings.ContainsAny(arg, " \t") {
			fmt.Fprintf(&sb, "%q", arg)
		} else {
			sb.WriteString(arg)
		}
	}
	return sb.String()
}
