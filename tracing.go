package wheelmk

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// SlogTracer passes trace messages to a [slog.Logger]. The running stage is
// added as attribute "stage". Backticks of the message markup are removed.
type SlogTracer struct {
	Log *slog.Logger
}

var _ wheelkore.Tracer = SlogTracer{}

func (tr SlogTracer) Debug(t *wheelkore.Trace, msg string, args ...any) {
	tr.log(t, slog.LevelDebug, msg, args)
}

func (tr SlogTracer) Info(t *wheelkore.Trace, msg string, args ...any) {
	tr.log(t, slog.LevelInfo, msg, args)
}

func (tr SlogTracer) Warn(t *wheelkore.Trace, msg string, args ...any) {
	tr.log(t, slog.LevelWarn, msg, args)
}

func (tr SlogTracer) Error(t *wheelkore.Trace, msg string, args ...any) {
	tr.log(t, slog.LevelError, msg, args)
}

func (tr SlogTracer) StartStage(t *wheelkore.Trace, s wheelkore.Stage) {
	tr.logger().LogAttrs(context.Background(), slog.LevelInfo, "start stage",
		slog.String("stage", s.String()),
	)
}

func (tr SlogTracer) DoneStage(t *wheelkore.Trace, s wheelkore.Stage, dt time.Duration) {
	tr.logger().LogAttrs(context.Background(), slog.LevelInfo, "done stage",
		slog.String("stage", s.String()),
		slog.Duration("took", dt),
		slog.Bool("degraded", t.Degraded(s)),
	)
}

func (tr SlogTracer) log(t *wheelkore.Trace, l slog.Level, msg string, args []any) {
	log := tr.logger()
	if s, ok := t.Stage(); ok {
		log = log.With(slog.String("stage", s.String()))
	}
	log.Log(context.Background(), l, strings.ReplaceAll(msg, "`", ""), args...)
}

func (tr SlogTracer) logger() *slog.Logger {
	if tr.Log == nil {
		return slog.Default()
	}
	return tr.Log
}
