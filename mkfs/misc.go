package mkfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrNoFile = errors.New("no file")

// FirstFile returns the first regular file in dir in lexical order.
func FirstFile(dir string) (File, error) {
	es, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range es {
		if e.Type().IsRegular() {
			return File(filepath.Join(dir, e.Name())), nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoFile, dir)
}

func IsDirEmpty(path string) (bool, error) {
	dir, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer dir.Close()
	if _, err = dir.ReadDir(1); errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}
