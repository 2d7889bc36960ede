package history

import (
	"io"
	"os"
	"path/filepath"

	"github.com/reelbox/reelbox/filesystem"
	"github.com/spf13/afero"
)

// store backs the gache registry with the swappable filesystem. Writes go to a
// sibling temp file that replaces the history file on Close, so a device losing
// power mid-write keeps the previous history.
type store struct{}

func (store) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	fs := filesystem.API()
	if flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return fs.OpenFile(name, flag, perm)
	}

	tmp, err := fs.TempFile(filepath.Dir(name), filepath.Base(name)+".*")
	if err != nil {
		return nil, err
	}
	return &replaceOnClose{File: tmp, fs: fs, target: name}, nil
}

func (store) MkdirAll(path string, perm os.FileMode) error {
	return filesystem.API().MkdirAll(path, perm)
}

type replaceOnClose struct {
	afero.File
	fs     afero.Afero
	target string
}

func (r *replaceOnClose) Close() error {
	if err := r.File.Close(); err != nil {
		_ = r.fs.Remove(r.Name())
		return err
	}
	return r.fs.Rename(r.Name(), r.target)
}
