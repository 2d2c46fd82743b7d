package wheelmk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// WheelTag returns the compatibility tag of a wheel that runs on any Python 3
// with any ABI on platform.
func WheelTag(platform string) string { return "py3-none-" + platform }

// A TagProvider finds the most specific platform tag of the host.
type TagProvider interface {
	PlatformTag(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env) (string, error)
}

// sysTagsScript prints the platform of the first, i.e. most specific, tag the
// installed packaging library supports.
const sysTagsScript = "from packaging.tags import sys_tags; print(next(iter(sys_tags())).platform)"

// PythonTags asks the Python interpreter's packaging library for the platform
// tag.
type PythonTags struct {
	Python string // default "python3"
}

func (pt PythonTags) PlatformTag(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env) (string, error) {
	python := pt.Python
	if python == "" {
		python = "python3"
	}
	exe, err := LookTool(python)
	if err != nil {
		return "", err
	}
	op := &CmdOp{
		Exe:  exe,
		Args: []string{"-c", sysTagsScript},
		Desc: python + " -c 'sys_tags()'",
	}
	out, err := op.Output(ctx, tr, env)
	if err != nil {
		return "", fmt.Errorf("packaging tags: %w", err)
	}
	tag := strings.TrimSpace(string(out))
	if tag == "" || strings.ContainsAny(tag, " \t\n-") {
		return "", fmt.Errorf("packaging tags: illegal platform '%s'", tag)
	}
	return tag, nil
}

// StaticTag is a fixed platform tag, e.g. for cross builds.
type StaticTag string

func (st StaticTag) PlatformTag(context.Context, *wheelkore.Trace, *wheelkore.Env) (string, error) {
	if st == "" {
		return "", errors.New("empty static platform tag")
	}
	return string(st), nil
}
