package wheelmk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"git.fractalqb.de/fractalqb/wheelmk/mkfs"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// ErrNoSources is returned by [FirstOf] when it has nothing to try.
var ErrNoSources = errors.New("no sources")

// FirstOf calls fns in order and returns the first successful result. When
// all of them fail, the joined errors are returned.
func FirstOf[T any](ctx context.Context, fns ...func(context.Context) (T, error)) (T, error) {
	var zero T
	if len(fns) == 0 {
		return zero, ErrNoSources
	}
	errs := make([]error, 0, len(fns))
	for _, fn := range fns {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		errs = append(errs, err)
	}
	return zero, errors.Join(errs...)
}

// A VersionSource finds the version of the project from a single source.
type VersionSource = func(context.Context) (string, error)

// DefaultPlaceholders are version values the frontend passes when it does not
// know the real version.
var DefaultPlaceholders = []string{"standard", "editable"}

const DefaultPkgInfo = "PKG-INFO"

type VersionConfig struct {
	// Placeholders replace DefaultPlaceholders if not nil.
	Placeholders []string
	Git          string // git executable, default "git"
	PkgInfo      string // default DefaultPkgInfo, relative to the project dir
}

func (vc *VersionConfig) IsPlaceholder(v string) bool {
	if v == "" {
		return true
	}
	phs := DefaultPlaceholders
	if vc != nil && vc.Placeholders != nil {
		phs = vc.Placeholders
	}
	return slices.Contains(phs, v)
}

// Sources returns the version sources of the project in dir by priority.
func (vc *VersionConfig) Sources(tr *wheelkore.Trace, env *wheelkore.Env, dir string) []VersionSource {
	if vc == nil {
		vc = new(VersionConfig)
	}
	pkgInfo := vc.PkgInfo
	if pkgInfo == "" {
		pkgInfo = DefaultPkgInfo
	}
	return []VersionSource{
		GitDescribe(tr, env, vc.Git, dir),
		RepoDescribe(dir),
		PkgInfoVersion(mkfs.File(pkgInfo).In(dir).Path()),
	}
}

// ResolveVersion returns supplied unless it is a placeholder. Otherwise the
// first version found by srcs is used. If no source has a version, supplied is
// kept. ResolveVersion never fails.
func ResolveVersion(
	ctx context.Context,
	tr *wheelkore.Trace,
	vc *VersionConfig,
	supplied string,
	srcs ...VersionSource,
) string {
	if !vc.IsPlaceholder(supplied) {
		tr.Debug("using supplied `version`", `version`, supplied)
		return supplied
	}
	v, err := FirstOf(ctx, srcs...)
	if err != nil {
		tr.Degrade("cannot resolve version, keeping `version`: `error`",
			`version`, supplied,
			`error`, err,
		)
		return supplied
	}
	tr.Info("resolved `version`", `version`, v)
	return v
}

// StripVersionPrefix removes one leading 'v' or 'V' from a version tag.
func StripVersionPrefix(v string) string {
	if len(v) > 1 && (v[0] == 'v' || v[0] == 'V') {
		return v[1:]
	}
	return v
}

// GitDescribe asks 'git describe --tags --always --dirty' for the version of
// the repository containing dir.
func GitDescribe(tr *wheelkore.Trace, env *wheelkore.Env, git, dir string) VersionSource {
	if git == "" {
		git = "git"
	}
	return func(ctx context.Context) (string, error) {
		exe, err := LookTool(git)
		if err != nil {
			return "", fmt.Errorf("git describe: %w", err)
		}
		op := &CmdOp{
			CWD:  dir,
			Exe:  exe,
			Args: []string{"describe", "--tags", "--always", "--dirty"},
		}
		out, err := op.Output(ctx, tr, env)
		if err != nil {
			return "", fmt.Errorf("git describe: %w", err)
		}
		desc := strings.TrimSpace(string(out))
		if desc == "" {
			return "", errors.New("git describe: empty description")
		}
		return StripVersionPrefix(desc), nil
	}
}

// PkgInfoVersion reads the Version field of a PKG-INFO file as found in
// unpacked source distributions.
func PkgInfoVersion(path string) VersionSource {
	return func(context.Context) (string, error) {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("package info: %w", err)
		}
		defer f.Close()
		scn := bufio.NewScanner(f)
		for scn.Scan() {
			if v, ok := strings.CutPrefix(scn.Text(), "Version:"); ok {
				if v = strings.TrimSpace(v); v != "" {
					return v, nil
				}
			}
		}
		if err := scn.Err(); err != nil {
			return "", fmt.Errorf("package info %s: %w", path, err)
		}
		return "", fmt.Errorf("package info %s: no Version field", path)
	}
}
