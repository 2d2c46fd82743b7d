package mkfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// MkDirs is an [wheelkore.Operation] that creates Dir with all missing parents.
type MkDirs struct {
	Dir       string
	MkDirMode fs.FileMode
}

var _ wheelkore.Operation = (*MkDirs)(nil)

func (md *MkDirs) Describe(*wheelkore.Env) string {
	return fmt.Sprintf("MkDirs %s %s", md.Dir, md.mode())
}

func (md *MkDirs) Do(_ context.Context, tr *wheelkore.Trace, _ *wheelkore.Env) error {
	tr.Debug("create `directory`", `directory`, md.Dir)
	if err := os.MkdirAll(md.Dir, md.mode()); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return nil
}

func (md *MkDirs) mode() fs.FileMode {
	if md.MkDirMode == 0 {
		return 0o777
	}
	return md.MkDirMode
}
