package mkfs

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

// Replace moves src over dst so that dst is never seen half written. When
// src cannot be renamed, e.g. because it is on another file system, it is first
// copied next to dst and the copy is renamed. The file mode of dst is kept if
// dst exists.
func Replace(tr *wheelkore.Trace, dst, src File) error {
	mode := os.FileMode(0o755)
	if st, err := os.Stat(dst.Path()); err == nil {
		mode = st.Mode().Perm()
	}
	tr.Debug("replace `dst` with `src`",
		slog.String(`dst`, dst.Path()),
		slog.String(`src`, src.Path()),
	)
	if err := os.Rename(src.Path(), dst.Path()); err == nil {
		return os.Chmod(dst.Path(), mode)
	} else {
		tr.Debug("rename failed, copying: `error`", `error`, err)
	}
	tmp, err := copyTemp(filepath.Dir(dst.Path()), src.Path(), mode)
	if err != nil {
		return err
	}
	if err = os.Rename(tmp, dst.Path()); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	if err = os.Remove(src.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		tr.Warn("cannot remove `source` after copy: `error`",
			`source`, src.Path(),
			`error`, err,
		)
	}
	return nil
}

func copyTemp(dir, src string, mode os.FileMode) (string, error) {
	r, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer r.Close()
	w, err := os.CreateTemp(dir, ".replace-*")
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(w, r); err == nil {
		err = w.Chmod(mode)
	}
	if e := w.Close(); err == nil {
		err = e
	}
	if err != nil {
		return "", errors.Join(err, os.Remove(w.Name()))
	}
	return w.Name(), nil
}
