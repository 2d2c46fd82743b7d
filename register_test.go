package wheelmk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
	"git.fractalqb.de/fractalqb/wheelmk/mkfs"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

type failingTags struct{}

func (failingTags) PlatformTag(context.Context, *wheelkore.Trace, *wheelkore.Env) (string, error) {
	return "", errors.New("no python")
}

func registerFixture(t *testing.T, tags TagProvider) (*Registration, wheelkore.BuildData) {
	dir := t.TempDir()
	testerr.Shall(os.Mkdir(filepath.Join(dir, "mcp_liner"), 0o755)).BeNil(t)
	for _, f := range []string{"_mcp_liner.so", "_mcp_liner.h"} {
		p := filepath.Join(dir, "mcp_liner", f)
		testerr.Shall(os.WriteFile(p, []byte(f), 0o644)).BeNil(t)
	}
	return &Registration{
		Lib:    mkfs.File(filepath.Join("mcp_liner", "_mcp_liner.so")),
		Dir:    dir,
		PkgDir: "mcp_liner",
		Tags:   tags,
	}, wheelkore.BuildData{}
}

func TestRegister(t *testing.T) {
	reg, data := registerFixture(t, StaticTag("linux_x86_64"))
	tr := NewTestTrace(t)
	done := tr.Start(wheelkore.StageRegister)
	Register(context.Background(), tr, nil, reg, data)
	done()

	fi := data.ForceInclude()
	if len(fi) != 1 || fi["mcp_liner/_mcp_liner.so"] != "mcp_liner/_mcp_liner.so" {
		t.Errorf("unexpected force_include %v", fi)
	}
	if data.Pure() {
		t.Error("wheel is pure")
	}
	if tag, ok := data.Tag(); !ok || tag != "py3-none-linux_x86_64" {
		t.Errorf("unexpected tag '%s'", tag)
	}
	if data.InferTag() {
		t.Error("infer_tag with explicit tag")
	}
	if ok, _ := reg.Header().Exists(); ok {
		t.Error("header not removed")
	}
	if ok, _ := reg.Lib.In(reg.Dir).Exists(); !ok {
		t.Error("library removed")
	}
	if tr.Degraded(wheelkore.StageRegister) {
		t.Error("register degraded")
	}
}

func TestRegister_inferTag(t *testing.T) {
	reg, data := registerFixture(t, failingTags{})
	tr := NewTestTrace(t)
	done := tr.Start(wheelkore.StageRegister)
	Register(context.Background(), tr, nil, reg, data)
	done()

	if _, ok := data.Tag(); ok {
		t.Error("tag set without platform")
	}
	if !data.InferTag() {
		t.Error("infer_tag not set")
	}
	if len(data.ForceInclude()) != 1 {
		t.Errorf("unexpected force_include %v", data.ForceInclude())
	}
	if !tr.Degraded(wheelkore.StageRegister) {
		t.Error("register not degraded")
	}
}

func TestRegister_nilData(t *testing.T) {
	reg, _ := registerFixture(t, StaticTag("linux_x86_64"))
	Register(context.Background(), NewTestTrace(t), nil, reg, nil)
	if ok, _ := reg.Header().Exists(); ok {
		t.Error("header not removed")
	}
}

func TestRegister_noHeader(t *testing.T) {
	reg, data := registerFixture(t, StaticTag("win_amd64"))
	testerr.Shall1(reg.Header().Remove()).BeNil(t)
	tr := NewTestTrace(t)
	Register(context.Background(), tr, nil, reg, data)
	if tag, _ := data.Tag(); tag != "py3-none-win_amd64" {
		t.Errorf("unexpected tag '%s'", tag)
	}
}

func TestPythonTags(t *testing.T) {
	python := fakeTool(t, "python3", `[ "$1" = -c ] || exit 2
echo manylinux_2_35_x86_64
`)
	tr := NewTestTrace(t)
	plat := testerr.Shall1(PythonTags{Python: python}.PlatformTag(context.Background(), tr, nil)).BeNil(t)
	if plat != "manylinux_2_35_x86_64" {
		t.Errorf("unexpected platform '%s'", plat)
	}
}

func TestPythonTags_noPackaging(t *testing.T) {
	python := fakeTool(t, "python3", "echo \"ModuleNotFoundError: No module named 'packaging'\" >&2\nexit 1\n")
	_, err := PythonTags{Python: python}.PlatformTag(context.Background(), NewTestTrace(t), nil)
	if err == nil {
		t.Error("platform without packaging")
	}
}
