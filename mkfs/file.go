package mkfs

import (
	"errors"
	"os"
	"path/filepath"
)

// File is a file system path in OS format, either absolute or relative to the
// directory the hook runs in.
type File string

func (f File) Path() string { return string(f) }

func (f File) Base() string { return filepath.Base(f.Path()) }

func (f File) Ext() string { return filepath.Ext(f.Path()) }

// WithExt replaces the extension of f. An empty ext removes the extension.
func (f File) WithExt(ext string) File {
	path := f.Path()
	if ext == "" {
		ext = filepath.Ext(path)
		if ext == "" {
			return f
		}
		return File(path[:len(path)-len(ext)])
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	fExt := filepath.Ext(path)
	if fExt == "" {
		return File(path + ext)
	}
	return File(path[:len(path)-len(fExt)] + ext)
}

// In resolves a relative f against dir. Absolute files and an empty dir leave
// f unchanged.
func (f File) In(dir string) File {
	if dir == "" || filepath.IsAbs(f.Path()) {
		return f
	}
	return File(filepath.Join(dir, f.Path()))
}

func (f File) Exists() (bool, error) {
	st, err := os.Stat(f.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, err
	}
	return !st.IsDir(), nil
}

// Remove deletes f if it exists. A file that vanishes between the check and
// the removal is not an error.
func (f File) Remove() (removed bool, err error) {
	if ok, err := f.Exists(); err != nil || !ok {
		return false, err
	}
	if err = os.Remove(f.Path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
