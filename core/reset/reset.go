// Package reset clears generated output so every run starts from a clean
// tree.
package reset

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tristendillon/headersync/core/logger"
)

// AllowList holds absolute paths that survive Reset. Only immediate children
// of the reset root are matched; the contents of an allow-listed directory
// are never inspected.
type AllowList map[string]struct{}

// NewAllowList cleans every path and rejects any that does not lie under root.
func NewAllowList(root string, paths ...string) (AllowList, error) {
	root = filepath.Clean(root)
	al := make(AllowList, len(paths))
	for _, p := range paths {
		p = filepath.Clean(p)
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == "." || rel == ".." || filepath.IsAbs(rel) || hasParentPrefix(rel) {
			return nil, fmt.Errorf("allow-listed path %s is not under %s", p, root)
		}
		al[p] = struct{}{}
	}
	return al, nil
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

func (al AllowList) Contains(path string) bool {
	_, ok := al[filepath.Clean(path)]
	return ok
}

// Reset deletes every immediate child of root that is not allow-listed.
// Directories are removed with all their contents. The first filesystem
// error aborts the sweep; nothing is rolled back.
func Reset(fs afero.Fs, root string, allow AllowList, log *logger.Logger) error {
	log.Debug("Removing all contents of: %s", root)

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return fmt.Errorf("failed to read output root %s: %w", root, err)
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())

		if allow.Contains(path) {
			log.Debug("Skipping file: %s", path)
			continue
		}

		if entry.IsDir() {
			log.Debug("Deleting dir: %s", path)
			if err := fs.RemoveAll(path); err != nil {
				return fmt.Errorf("failed to delete directory %s: %w", path, err)
			}
			continue
		}

		log.Debug("Deleting file: %s", path)
		if err := fs.Remove(path); err != nil {
			return fmt.Errorf("failed to delete file %s: %w", path, err)
		}
	}
	return nil
}

// ReplaceDeclaration swaps the file at path for a fresh empty one. The empty
// file is written under a temporary name and renamed into place so an
// interrupted run never leaves a half-written declaration file behind.
func ReplaceDeclaration(fs afero.Fs, path string, log *logger.Logger) error {
	tmp := filepath.Join(filepath.Dir(path), "TEMP_"+filepath.Base(path))

	log.Debug("Creating blank file: %s", tmp)
	f, err := fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	log.Debug("Replacing %s with new blank file", path)
	if err := fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
