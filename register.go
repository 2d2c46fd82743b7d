package wheelmk

import (
	"context"
	"errors"
	"path"
	"path/filepath"

	"git.fractalqb.de/fractalqb/wheelmk/mkfs"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// Registration describes how a library is put into the wheel.
type Registration struct {
	// Lib is the library as the frontend sees it, relative to its working
	// directory.
	Lib mkfs.File
	// Dir is the directory Lib is relative to for the hook.
	Dir string
	// PkgDir is the slash separated directory of Lib in the wheel.
	PkgDir string
	Tags   TagProvider
}

// WheelPath returns the path of the library inside the wheel.
func (reg *Registration) WheelPath() string {
	return path.Join(reg.PkgDir, filepath.Base(reg.Lib.Path()))
}

// Header returns the C header 'go build' writes next to the library.
func (reg *Registration) Header() mkfs.File {
	return reg.Lib.In(reg.Dir).WithExt(".h")
}

// Register includes the library in data, marks the wheel as platform specific
// and removes the generated C header. The platform tag is set explicitly when
// reg.Tags finds it. Otherwise the frontend is asked to infer the tag. With
// nil data only the header is removed.
func Register(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, reg *Registration, data wheelkore.BuildData) {
	if data == nil {
		tr.Debug("no build data to register `lib`", `lib`, reg.Lib.Path())
	} else {
		data.Include(filepath.ToSlash(reg.Lib.Path()), reg.WheelPath())
		data.SetPure(false)
		if tag, err := platformTag(ctx, tr, env, reg.Tags); err != nil {
			tr.Degrade("cannot determine platform tag, frontend has to infer it: `error`",
				`error`, err,
			)
			data.SetInferTag()
		} else {
			tr.Info("wheel `tag`", `tag`, tag)
			data.SetTag(tag)
		}
	}
	hdr := reg.Header()
	switch removed, err := hdr.Remove(); {
	case err != nil:
		tr.Warn("cannot remove `header`: `error`", `header`, hdr.Path(), `error`, err)
	case removed:
		tr.Debug("removed `header`", `header`, hdr.Path())
	}
}

func platformTag(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env, tags TagProvider) (string, error) {
	if tags == nil {
		return "", errors.New("no tag provider")
	}
	plat, err := tags.PlatformTag(ctx, tr, env)
	if err != nil {
		return "", err
	}
	return WheelTag(plat), nil
}
