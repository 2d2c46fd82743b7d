package wheelmk

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/sllm/v3"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// WriteTracer writes trace messages as text lines to W. Message arguments are
// rendered with sllm.
type WriteTracer struct {
	W   io.Writer
	Log wheelkore.TraceLog
}

var _ wheelkore.Tracer = (*WriteTracer)(nil)

func DefaultTracer() wheelkore.Tracer {
	return &WriteTracer{W: os.Stderr, Log: wheelkore.DefaultTraceLog}
}

func (tr *WriteTracer) ParseLogFlag(f string) (err error) {
	tr.Log, err = wheelkore.ParseTraceLog(f)
	if err != nil {
		return fmt.Errorf("write tracer: %w", err)
	}
	return nil
}

func (tr *WriteTracer) Debug(t *wheelkore.Trace, msg string, args ...any) {
	if tr.Log&wheelkore.TraceDebug != 0 {
		tr.write(t, "DEBUG", msg, args)
	}
}

func (tr *WriteTracer) Info(t *wheelkore.Trace, msg string, args ...any) {
	if tr.logInfo() {
		tr.write(t, "INFO ", msg, args)
	}
}

func (tr *WriteTracer) Warn(t *wheelkore.Trace, msg string, args ...any) {
	if tr.Log != 0 {
		tr.write(t, "WARN ", msg, args)
	}
}

func (tr *WriteTracer) Error(t *wheelkore.Trace, msg string, args ...any) {
	if tr.Log != 0 {
		tr.write(t, "ERROR", msg, args)
	}
}

func (tr *WriteTracer) StartStage(t *wheelkore.Trace, s wheelkore.Stage) {
	if tr.logInfo() {
		fmt.Fprintf(tr.W, "%s\t{ %s\n", t.TopTag(), s)
	}
}

func (tr *WriteTracer) DoneStage(t *wheelkore.Trace, s wheelkore.Stage, dt time.Duration) {
	if !tr.logInfo() {
		return
	}
	if t.Degraded(s) {
		fmt.Fprintf(tr.W, "%s\t} %s degraded, took %s\n", t.TopTag(), s, dt)
	} else {
		fmt.Fprintf(tr.W, "%s\t} %s took %s\n", t.TopTag(), s, dt)
	}
}

func (tr *WriteTracer) logInfo() bool {
	return tr.Log&(wheelkore.TraceInfo|wheelkore.TraceDebug) != 0
}

func (tr *WriteTracer) write(t *wheelkore.Trace, level, msg string, args []any) {
	fmt.Fprintf(tr.W, "%s\t  %s ", t.TopTag(), level)
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

type sllmArgs []any

func (as sllmArgs) append(buf []byte, _ int, n string) ([]byte, error) {
	for len(as) > 0 {
		switch k := as[0].(type) {
		case string:
			if len(as) == 1 {
				return buf, fmt.Errorf("no value for key '%s'", n)
			}
			if k == n {
				return sllm.AppendArg(buf, as[1]), nil
			}
			as = as[2:]
		case slog.Attr:
			if k.Key == n {
				return sllm.AppendArg(buf, k.Value.Any()), nil
			}
			as = as[1:]
		default:
			return buf, fmt.Errorf("illegal key type %T", k)
		}
	}
	return buf, fmt.Errorf("no key '%s'", n)
}
