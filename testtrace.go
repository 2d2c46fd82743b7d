package wheelmk

import (
	"strings"
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/sllm/v3"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// TestTracer logs all trace messages to a test.
type TestTracer struct{ t testing.TB }

var _ wheelkore.Tracer = TestTracer{}

func NewTestTrace(t testing.TB) *wheelkore.Trace {
	return wheelkore.NewTrace(TestTracer{t})
}

func (tr TestTracer) Debug(t *wheelkore.Trace, msg string, args ...any) {
	tr.log(t, "DEBUG", msg, args)
}

func (tr TestTracer) Info(t *wheelkore.Trace, msg string, args ...any) {
	tr.log(t, "INFO", msg, args)
}

func (tr TestTracer) Warn(t *wheelkore.Trace, msg string, args ...any) {
	tr.log(t, "WARN", msg, args)
}

func (tr TestTracer) Error(t *wheelkore.Trace, msg string, args ...any) {
	tr.log(t, "ERROR", msg, args)
}

func (tr TestTracer) StartStage(t *wheelkore.Trace, s wheelkore.Stage) {
	tr.t.Logf("wheelmk-StartStage: %s", s)
}

func (tr TestTracer) DoneStage(t *wheelkore.Trace, s wheelkore.Stage, dt time.Duration) {
	tr.t.Logf("wheelmk-DoneStage: %s %s", s, dt)
}

func (tr TestTracer) log(t *wheelkore.Trace, level, msg string, args []any) {
	tr.t.Helper()
	var sb strings.Builder
	sllm.Fprint(&sb, msg, sllmArgs(args).append)
	tr.t.Logf("wheelmk-%s %s: %s", level, t.TopTag(), sb.String())
}
