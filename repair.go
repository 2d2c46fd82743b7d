package wheelmk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"git.fractalqb.de/fractalqb/wheelmk/mkfs"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// A Repairer post-processes the compiled library for portability. Repairing is
// best effort: a Repairer reports problems to the trace and leaves the
// original library in place.
type Repairer interface {
	Repair(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, lib mkfs.File)
}

// RepairerFor selects the repair strategy for target once per build. Only
// Linux libraries are repaired.
func RepairerFor(target wheelkore.Target, plat string) Repairer {
	if !target.IsLinux() {
		return NoRepair{}
	}
	if plat == "" {
		plat = ManylinuxPlat(target.GOARCH)
	}
	return &Auditwheel{Plat: plat}
}

type NoRepair struct{}

func (NoRepair) Repair(_ context.Context, tr *wheelkore.Trace, _ *wheelkore.Env, lib mkfs.File) {
	tr.Debug("no repair for `lib`", `lib`, lib.Path())
}

// ManylinuxBaseline is the manylinux profile libraries are repaired for by
// default.
const ManylinuxBaseline = "manylinux2014"

var manylinuxArchs = map[string]string{
	"amd64":   "x86_64",
	"386":     "i686",
	"arm64":   "aarch64",
	"arm":     "armv7l",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
}

// ManylinuxPlat returns the baseline platform tag for goarch.
func ManylinuxPlat(goarch string) string {
	if a, ok := manylinuxArchs[goarch]; ok {
		goarch = a
	}
	return ManylinuxBaseline + "_" + goarch
}

// Auditwheel repairs a library with 'auditwheel repair', which rewrites its
// dependencies so that it loads on every Linux that satisfies Plat.
type Auditwheel struct {
	Exe     string // default "auditwheel"
	Plat    string
	TempDir string // parent of the work directory, default os.TempDir()
}

func (aw *Auditwheel) Repair(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, lib mkfs.File) {
	defer func() {
		if p := recover(); p != nil {
			tr.Degrade("repair of `lib` aborted: `panic`",
				`lib`, lib.Path(),
				`panic`, fmt.Sprint(p),
			)
		}
	}()
	exe, err := LookTool(aw.exe())
	if err != nil {
		tr.Degrade("skip repair, package `lib` as is: `error`",
			`lib`, lib.Path(),
			`error`, err,
		)
		return
	}
	if err := aw.repair(ctx, tr, env, exe, lib); err != nil {
		tr.Degrade("repair failed, package `lib` as is: `error`",
			`lib`, lib.Path(),
			`error`, err,
		)
		return
	}
	tr.Info("repaired `lib` for `plat`",
		slog.String(`lib`, lib.Path()),
		slog.String(`plat`, aw.Plat),
	)
}

func (aw *Auditwheel) repair(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, exe string, lib mkfs.File) error {
	if aw.Plat == "" {
		return errors.New("no target platform")
	}
	work, err := os.MkdirTemp(aw.TempDir, "wheelmk-repair-")
	if err != nil {
		return err
	}
	defer func() {
		if err := os.RemoveAll(work); err != nil {
			tr.Debug("cannot remove `dir`: `error`", `dir`, work, `error`, err)
		}
	}()
	op := &CmdOp{
		Exe:  exe,
		Args: []string{"repair", lib.Path(), "-w", work, "--plat", aw.Plat},
	}
	tr.Info("running `cmd`", `cmd`, op.Describe(env))
	out, err := op.CombinedOutput(ctx, tr, env)
	if err != nil {
		return err
	}
	if s := strings.TrimSpace(string(out)); s != "" {
		tr.Debug("`tool` says: `output`", `tool`, "auditwheel", `output`, s)
	}
	repaired, err := mkfs.FirstFile(work)
	if errors.Is(err, mkfs.ErrNoFile) {
		return ErrNoRepairOutput
	} else if err != nil {
		return err
	}
	return mkfs.Replace(tr, lib, repaired)
}

func (aw *Auditwheel) exe() string {
	if aw.Exe == "" {
		return "auditwheel"
	}
	return aw.Exe
}
