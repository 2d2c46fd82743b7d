package wheelmk

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"git.fractalqb.de/fractalqb/wheelmk/mkfs"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

const (
	BuildModeCShared = "c-shared"

	// DefaultVersionVar is the variable of the compiled program that receives
	// the build version.
	DefaultVersionVar = "main.appVersion"
)

type GoTool struct {
	GoExe string
}

func (t *GoTool) goExe() (string, error) {
	if t.GoExe != "" {
		return t.GoExe, nil
	}
	return exec.LookPath("go")
}

// GoBuild is an [wheelkore.Operation] that runs 'go build' for the package
// directory Pkg and writes the result to Out.
type GoBuild struct {
	GoTool
	CWD       string
	Pkg       string
	Out       mkfs.File
	BuildMode string
	TrimPath  bool
	LDFlags   []string // See https://pkg.go.dev/cmd/link
	SetVars   []string // See https://pkg.go.dev/cmd/link Flag: -X
}

var _ wheelkore.Operation = (*GoBuild)(nil)

// CSharedBuild returns the build of a C shared library from pkg that is
// stripped, free of local file system paths and has version stamped into
// versionVar.
func CSharedBuild(pkg string, out mkfs.File, versionVar, version string) *GoBuild {
	if versionVar == "" {
		versionVar = DefaultVersionVar
	}
	return &GoBuild{
		Pkg:       pkg,
		Out:       out,
		BuildMode: BuildModeCShared,
		TrimPath:  true,
		LDFlags:   []string{"-s", "-w"},
		SetVars:   []string{versionVar + "=" + version},
	}
}

func (gb *GoBuild) Describe(*wheelkore.Env) string {
	return CmdLine("go", gb.Args()...)
}

// Args returns the arguments of the go command.
func (gb *GoBuild) Args() []string {
	args := []string{"build"}
	if gb.TrimPath {
		args = append(args, "-trimpath")
	}
	if ldFlags := gb.ldFlags(); ldFlags != "" {
		args = append(args, "-ldflags", ldFlags)
	}
	if gb.BuildMode != "" {
		args = append(args, "-buildmode="+gb.BuildMode)
	}
	if gb.Out != "" {
		args = append(args, "-o", gb.Out.Path())
	}
	if gb.Pkg != "" {
		args = append(args, gb.Pkg)
	}
	return args
}

func (gb *GoBuild) ldFlags() string {
	var sb strings.Builder
	for _, f := range gb.LDFlags {
		if f != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(f)
		}
	}
	for _, v := range gb.SetVars {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("-X ")
		sb.WriteString(v)
	}
	return sb.String()
}

func (gb *GoBuild) Do(ctx context.Context, tr *wheelkore.Trace, env *wheelkore.Env) error {
	if gb.Pkg == "" {
		return errors.New("go build without package")
	}
	goTool, err := gb.goExe()
	if err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	op := &CmdOp{
		CWD:    gb.CWD,
		Exe:    goTool,
		Args:   gb.Args(),
		Desc:   gb.Describe(env),
		Prefix: "go: ",
	}
	tr.Info("running `cmd`", `cmd`, op.Desc)
	return op.Do(ctx, tr, env)
}
