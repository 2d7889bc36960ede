// Package storage exposes the mounted media volume to the playback controller and the decoder engines.
//
// A Volume is a base-path view over the active afero backend, so clip paths are
// always volume-relative ("/intro.vid") regardless of where the volume lives on disk.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/reelbox/reelbox/filesystem"
	"github.com/reelbox/reelbox/log"
	"github.com/spf13/afero"
)

var logger = log.For("storage")

// ErrNotMounted is returned by operations on a volume that has not been mounted.
var ErrNotMounted = errors.New("volume not mounted")

// Accessor is the narrow view of the volume the controller depends on.
type Accessor interface {
	// Ready reports whether the volume is mounted and its root is reachable.
	Ready() error
	// Exists reports whether path names a regular file on the volume.
	Exists(path string) bool
}

// Entry describes a single file on the volume.
type Entry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"isDir"`
}

// Volume is an afero-backed media volume.
type Volume struct {
	mu   sync.RWMutex
	root string
	fs   afero.Fs
}

// NewVolume returns an unmounted volume.
func NewVolume() *Volume {
	return &Volume{}
}

// Mount attaches the volume to root on the active filesystem backend.
// Mounting an already mounted volume re-targets it.
func (v *Volume) Mount(root string) error {
	if strings.TrimSpace(root) == "" {
		return fmt.Errorf("mount: empty root")
	}

	base := filesystem.API()
	info, err := base.Stat(root)
	if err != nil {
		return fmt.Errorf("mount %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("mount %s: not a directory", root)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.root = root
	v.fs = afero.NewBasePathFs(base.Fs, root)
	logger.Infof("mounted volume at %s", root)
	return nil
}

// Unmount detaches the volume. It is safe to call on an unmounted volume.
func (v *Volume) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.fs != nil {
		logger.Infof("unmounted volume at %s", v.root)
	}
	v.fs = nil
	v.root = ""
}

// Root returns the on-disk root of the volume, or an empty string when unmounted.
func (v *Volume) Root() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.root
}

// Fs returns the volume-relative filesystem, or nil when unmounted.
func (v *Volume) Fs() afero.Fs {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.fs
}

// Ready implements Accessor.
func (v *Volume) Ready() error {
	fsys := v.Fs()
	if fsys == nil {
		return ErrNotMounted
	}

	if _, err := fsys.Stat("/"); err != nil {
		return fmt.Errorf("volume root: %w", err)
	}
	return nil
}

// Exists implements Accessor.
func (v *Volume) Exists(name string) bool {
	info, err := v.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

// Stat returns file information for name.
func (v *Volume) Stat(name string) (fs.FileInfo, error) {
	fsys := v.Fs()
	if fsys == nil {
		return nil, ErrNotMounted
	}
	return fsys.Stat(clean(name))
}

// List returns the direct children of dir, directories first, then by name.
func (v *Volume) List(dir string) ([]Entry, error) {
	fsys := v.Fs()
	if fsys == nil {
		return nil, ErrNotMounted
	}

	dir = clean(dir)
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name:  info.Name(),
			Path:  path.Join(dir, info.Name()),
			Size:  info.Size(),
			IsDir: info.IsDir(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Clips walks the whole volume and returns every regular file whose extension is in exts.
// An empty exts matches all files.
func (v *Volume) Clips(exts ...string) ([]Entry, error) {
	fsys := v.Fs()
	if fsys == nil {
		return nil, ErrNotMounted
	}

	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	var clips []Entry
	err := afero.Walk(fsys, "/", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if len(allowed) > 0 && !allowed[strings.ToLower(path.Ext(p))] {
			return nil
		}

		clips = append(clips, Entry{
			Name: info.Name(),
			Path: clean(p),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(clips, func(i, j int) bool {
		return clips[i].Path < clips[j].Path
	})
	return clips, nil
}

// LogContents writes the top-level listing of the volume to the log.
func (v *Volume) LogContents() {
	entries, err := v.List("/")
	if err != nil {
		logger.WithError(err).Errorf("failed to list volume")
		return
	}

	for _, e := range entries {
		logger.Infof("name=%s size=%d dir=%t", e.Name, e.Size, e.IsDir)
	}
}

// clean normalises a clip path into the slash-rooted volume form.
func clean(name string) string {
	return path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
}
