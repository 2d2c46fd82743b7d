package wheelmk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
	"git.fractalqb.de/fractalqb/wheelmk/mkfs"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

const fakeAuditwheel = `[ "$1" = repair ] && [ "$3" = -w ] && [ "$5" = --plat ] || exit 2
printf 'repaired for %s' "$6" > "$4/${2##*/}"
`

func testLib(t *testing.T) mkfs.File {
	lib := mkfs.File(filepath.Join(t.TempDir(), "_mcp_liner.so"))
	testerr.Shall(os.WriteFile(lib.Path(), []byte("original"), 0o755)).BeNil(t)
	return lib
}

func repairLib(t *testing.T, r Repairer, lib mkfs.File) *wheelkore.Trace {
	tr := NewTestTrace(t)
	env, _ := testEnv(t, tr)
	done := tr.Start(wheelkore.StageRepair)
	r.Repair(context.Background(), tr, env, lib)
	done()
	return tr
}

func libContent(t *testing.T, lib mkfs.File) string {
	return string(testerr.Shall1(os.ReadFile(lib.Path())).BeNil(t))
}

func TestRepairerFor(t *testing.T) {
	r := RepairerFor(wheelkore.TargetFor("windows", "amd64", "_x"), "")
	if _, ok := r.(NoRepair); !ok {
		t.Errorf("windows repairer is %T", r)
	}
	r = RepairerFor(wheelkore.TargetFor("darwin", "arm64", "_x"), "")
	if _, ok := r.(NoRepair); !ok {
		t.Errorf("darwin repairer is %T", r)
	}
	r = RepairerFor(wheelkore.TargetFor("linux", "arm64", "_x"), "")
	if aw, ok := r.(*Auditwheel); !ok {
		t.Errorf("linux repairer is %T", r)
	} else if aw.Plat != "manylinux2014_aarch64" {
		t.Errorf("unexpected platform '%s'", aw.Plat)
	}
	r = RepairerFor(wheelkore.TargetFor("linux", "amd64", "_x"), "manylinux_2_28_x86_64")
	if aw := r.(*Auditwheel); aw.Plat != "manylinux_2_28_x86_64" {
		t.Errorf("platform not used: '%s'", aw.Plat)
	}
}

func TestManylinuxPlat(t *testing.T) {
	for arch, plat := range map[string]string{
		"amd64":   "manylinux2014_x86_64",
		"386":     "manylinux2014_i686",
		"ppc64le": "manylinux2014_ppc64le",
		"riscv64": "manylinux2014_riscv64",
	} {
		if p := ManylinuxPlat(arch); p != plat {
			t.Errorf("%s: got '%s', want '%s'", arch, p, plat)
		}
	}
}

func TestAuditwheel_noTool(t *testing.T) {
	lib := testLib(t)
	tr := repairLib(t, &Auditwheel{Exe: "wheelmk-no-such-auditwheel", Plat: "manylinux2014_x86_64"}, lib)
	if s := libContent(t, lib); s != "original" {
		t.Errorf("library changed to '%s'", s)
	}
	if !tr.Degraded(wheelkore.StageRepair) {
		t.Error("repair not degraded")
	}
}

func TestAuditwheel_repair(t *testing.T) {
	lib := testLib(t)
	tmp := t.TempDir()
	aw := &Auditwheel{
		Exe:     fakeTool(t, "auditwheel", fakeAuditwheel),
		Plat:    "manylinux2014_x86_64",
		TempDir: tmp,
	}
	tr := repairLib(t, aw, lib)
	if s := libContent(t, lib); s != "repaired for manylinux2014_x86_64" {
		t.Errorf("unexpected library '%s'", s)
	}
	if tr.Degraded(wheelkore.StageRepair) {
		t.Error("successful repair degraded")
	}
	if empty := testerr.Shall1(mkfs.IsDirEmpty(tmp)).BeNil(t); !empty {
		t.Error("repair work directory not removed")
	}
}

func TestAuditwheel_fail(t *testing.T) {
	lib := testLib(t)
	tmp := t.TempDir()
	aw := &Auditwheel{
		Exe:     fakeTool(t, "auditwheel", "echo 'cannot repair' >&2\nexit 1\n"),
		Plat:    "manylinux2014_x86_64",
		TempDir: tmp,
	}
	tr := repairLib(t, aw, lib)
	if s := libContent(t, lib); s != "original" {
		t.Errorf("library changed to '%s'", s)
	}
	if !tr.Degraded(wheelkore.StageRepair) {
		t.Error("failed repair not degraded")
	}
	if empty := testerr.Shall1(mkfs.IsDirEmpty(tmp)).BeNil(t); !empty {
		t.Error("repair work directory not removed")
	}
}

func TestAuditwheel_noOutput(t *testing.T) {
	lib := testLib(t)
	aw := &Auditwheel{
		Exe:     fakeTool(t, "auditwheel", "exit 0\n"),
		Plat:    "manylinux2014_x86_64",
		TempDir: t.TempDir(),
	}
	tr := repairLib(t, aw, lib)
	if s := libContent(t, lib); s != "original" {
		t.Errorf("library changed to '%s'", s)
	}
	if !tr.Degraded(wheelkore.StageRepair) {
		t.Error("repair without output not degraded")
	}
}
