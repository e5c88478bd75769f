package walker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tristendillon/headersync/core/logger"
)

type TreeWalker interface {
	Walk(root string) ([]string, error)
}

type TreeWalkerImpl struct {
	Fs  afero.Fs
	Log *logger.Logger
}

func NewTreeWalker(fs afero.Fs, log *logger.Logger) *TreeWalkerImpl {
	return &TreeWalkerImpl{Fs: fs, Log: log}
}

// Walk returns every file under root, depth-first, in lexical order within
// each directory. Directories are expanded as soon as they are met, so a
// subtree's files precede the files of later siblings. Symlinked directories
// are followed and loops are not detected.
func (w *TreeWalkerImpl) Walk(root string) ([]string, error) {
	info, err := w.Fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read source root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", root)
	}

	var paths []string
	if err := w.walkDir(root, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func (w *TreeWalkerImpl) walkDir(dir string, paths *[]string) error {
	w.Log.Debug("Found dir: %s", dir)

	entries, err := afero.ReadDir(w.Fs, dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir, err := w.isDir(path, entry)
		if err != nil {
			return err
		}
		if isDir {
			if err := w.walkDir(path, paths); err != nil {
				return err
			}
			continue
		}

		w.Log.Debug("Found file: %s", path)
		*paths = append(*paths, path)
	}
	return nil
}

func (w *TreeWalkerImpl) isDir(path string, entry os.FileInfo) (bool, error) {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	target, err := w.Fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// dangling link, treat as a plain file
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve symlink %s: %w", path, err)
	}
	return target.IsDir(), nil
}
