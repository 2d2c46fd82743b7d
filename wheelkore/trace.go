package wheelkore

import (
	"fmt"
	"strings"
	"time"

	"github.com/bits-and-blooms/bitset"
)

type Tracer interface {
	Debug(t *Trace, msg string, args ...any)
	Info(t *Trace, msg string, args ...any)
	Warn(t *Trace, msg string, args ...any)
	Error(t *Trace, msg string, args ...any)

	StartStage(t *Trace, s Stage)
	DoneStage(t *Trace, s Stage, dt time.Duration)
}

type TraceLog int

var DefaultTraceLog TraceLog = TraceWarn

const (
	TraceWarn TraceLog = (1 << iota)
	TraceInfo
	TraceDebug
)

func ParseTraceLog(f string) (TraceLog, error) {
	switch strings.ToLower(f) {
	case "":
		return DefaultTraceLog, nil
	case "off":
		return 0, nil
	case "warn", "w":
		return TraceWarn, nil
	case "info", "i":
		return TraceWarn | TraceInfo, nil
	case "debug", "d":
		return TraceWarn | TraceInfo | TraceDebug, nil
	}
	return 0, fmt.Errorf("illegal trace log level '%s'", f)
}

// Trace follows one run of the hook. It knows the stage that is currently
// running and remembers which stages ran and which of them had to fall back to
// a degraded result.
type Trace struct {
	tr       Tracer
	stage    Stage
	inStage  bool
	ran      *bitset.BitSet
	degraded *bitset.BitSet
}

func NewTrace(t Tracer) *Trace {
	if t == nil {
		t = nopTracer{}
	}
	return &Trace{
		tr:       t,
		ran:      bitset.New(uint(stageCount)),
		degraded: bitset.New(uint(stageCount)),
	}
}

func (t *Trace) Debug(msg string, args ...any) { t.tr.Debug(t, msg, args...) }
func (t *Trace) Info(msg string, args ...any)  { t.tr.Info(t, msg, args...) }
func (t *Trace) Warn(msg string, args ...any)  { t.tr.Warn(t, msg, args...) }
func (t *Trace) Error(msg string, args ...any) { t.tr.Error(t, msg, args...) }

// Start marks s as the running stage. The returned function ends the stage and
// must be called exactly once.
func (t *Trace) Start(s Stage) (done func()) {
	t.stage, t.inStage = s, true
	t.ran.Set(uint(s))
	t.tr.StartStage(t, s)
	start := time.Now()
	return func() {
		t.tr.DoneStage(t, s, time.Since(start))
		t.inStage = false
	}
}

// Stage returns the running stage, if any.
func (t *Trace) Stage() (Stage, bool) { return t.stage, t.inStage }

// Degrade logs a warning and marks the running stage as degraded.
func (t *Trace) Degrade(msg string, args ...any) {
	if t.inStage {
		t.degraded.Set(uint(t.stage))
	}
	t.tr.Warn(t, msg, args...)
}

func (t *Trace) Ran(s Stage) bool      { return t.ran.Test(uint(s)) }
func (t *Trace) Degraded(s Stage) bool { return t.degraded.Test(uint(s)) }

func (t *Trace) Degradations() (ss []Stage) {
	for i, ok := t.degraded.NextSet(0); ok; i, ok = t.degraded.NextSet(i + 1) {
		ss = append(ss, Stage(i))
	}
	return ss
}

func (t *Trace) TopTag() string {
	if !t.inStage {
		return "[-]"
	}
	return "[" + t.stage.String() + "]"
}

func (t *Trace) String() string {
	return fmt.Sprintf("%s ran:%d degraded:%d",
		t.TopTag(),
		t.ran.Count(),
		t.degraded.Count(),
	)
}

type nopTracer struct{}

func (nopTracer) Debug(*Trace, string, ...any)           {}
func (nopTracer) Info(*Trace, string, ...any)            {}
func (nopTracer) Warn(*Trace, string, ...any)            {}
func (nopTracer) Error(*Trace, string, ...any)           {}
func (nopTracer) StartStage(*Trace, Stage)               {}
func (nopTracer) DoneStage(*Trace, Stage, time.Duration) {}
