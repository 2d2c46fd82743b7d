package wheelmk

import (
	"context"
	"path/filepath"

	"git.fractalqb.de/fractalqb/wheelmk/mkfs"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// Defaults of a [Hook] as used for the mcp-liner wheel.
const (
	DefaultSrcDir    = "./cmd/mcp-liner"
	DefaultOutDir    = "mcp_liner"
	DefaultLibPrefix = "_mcp_liner"
	DefaultPkgDir    = "mcp_liner"
)

// Hook builds the shared library of a wheel. The zero value of each field
// selects its default, except for Dir which defaults to the process's working
// directory.
type Hook struct {
	Dir       string // Project directory
	SrcDir    string // Go package to build, relative to Dir
	OutDir    string // Directory of the library, relative to Dir
	LibPrefix string // Library file name without extension
	PkgDir    string // Directory of the library inside the wheel

	// Target defaults to the host platform.
	Target *wheelkore.Target

	Versions   VersionConfig
	VersionVar string
	Go         GoTool

	// Repair defaults to [RepairerFor] the target with RepairPlat.
	Repair     Repairer
	RepairPlat string

	// Tags defaults to [PythonTags].
	Tags TagProvider
}

// Result describes what a successful [Hook.Initialize] produced.
type Result struct {
	Version string
	Target  wheelkore.Target
	Lib     mkfs.File // relative to the hook's Dir
}

// Initialize runs all stages of the hook for the version requested by the
// frontend and registers the library with data. It only fails if the library
// cannot be compiled. Then a [*CompileError] is returned and data is left
// untouched.
func (h *Hook) Initialize(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, version string, data wheelkore.BuildData) (*Result, error) {
	res := &Result{Target: h.target()}
	repair := h.repairer(res.Target)

	res.Version = h.resolveVersion(ctx, tr, env, version)
	res.Lib = h.selectLib(tr, res.Target)
	if err := h.compile(ctx, tr, env, res); err != nil {
		return nil, err
	}
	h.repair(ctx, tr, env, repair, res.Lib)
	h.register(ctx, tr, env, res.Lib, data)
	return res, nil
}

func (h *Hook) resolveVersion(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, version string) string {
	defer tr.Start(wheelkore.StageVersion)()
	return ResolveVersion(ctx, tr, &h.Versions, version,
		h.Versions.Sources(tr, env, h.Dir)...,
	)
}

func (h *Hook) selectLib(tr *wheelkore.Trace, target wheelkore.Target) mkfs.File {
	defer tr.Start(wheelkore.StagePlatform)()
	lib := mkfs.File(filepath.Join(h.outDir(), target.Name))
	tr.Debug("library `file` for `target`", `file`, lib.Path(), `target`, target.String())
	return lib
}

func (h *Hook) compile(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, res *Result) error {
	defer tr.Start(wheelkore.StageCompile)()
	mkdir := &mkfs.MkDirs{Dir: mkfs.File(h.outDir()).In(h.Dir).Path()}
	if err := mkdir.Do(ctx, tr, env); err != nil {
		return &CompileError{Version: res.Version, Err: err}
	}
	gb := CSharedBuild(h.srcDir(), res.Lib, h.VersionVar, res.Version)
	gb.GoTool = h.Go
	gb.CWD = h.Dir
	tr.Info("building `lib` `version`",
		`lib`, res.Lib.Path(),
		`version`, res.Version,
	)
	if err := gb.Do(ctx, tr, env); err != nil {
		tr.Error("go build failed: `error`", `error`, err)
		return &CompileError{Version: res.Version, Err: err}
	}
	tr.Info("go build completed")
	return nil
}

func (h *Hook) repair(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, r Repairer, lib mkfs.File) {
	defer tr.Start(wheelkore.StageRepair)()
	r.Repair(ctx, tr, env, lib.In(h.Dir))
}

func (h *Hook) register(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, lib mkfs.File, data wheelkore.BuildData) {
	defer tr.Start(wheelkore.StageRegister)()
	tags := h.Tags
	if tags == nil {
		tags = PythonTags{}
	}
	Register(ctx, tr, env, &Registration{
		Lib:    lib,
		Dir:    h.Dir,
		PkgDir: h.pkgDir(),
		Tags:   tags,
	}, data)
}

func (h *Hook) target() wheelkore.Target {
	if h.Target != nil {
		return *h.Target
	}
	prefix := h.LibPrefix
	if prefix == "" {
		prefix = DefaultLibPrefix
	}
	return wheelkore.HostTarget(prefix)
}

func (h *Hook) repairer(t wheelkore.Target) Repairer {
	if h.Repair != nil {
		return h.Repair
	}
	return RepairerFor(t, h.RepairPlat)
}

func (h *Hook) srcDir() string { return orDefault(h.SrcDir, DefaultSrcDir) }
func (h *Hook) outDir() string { return orDefault(h.OutDir, DefaultOutDir) }
func (h *Hook) pkgDir() string { return orDefault(h.PkgDir, DefaultPkgDir) }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
