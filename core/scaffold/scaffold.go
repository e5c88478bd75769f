// Package scaffold creates the nested module directories of the output tree
// and declares each new module in its parent exactly once.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/naming"
)

var ErrModulePathIsFile = errors.New("module path exists as a file")

// Layout names the declaration files of the output module system.
type Layout struct {
	Root                 string
	TopLevelDeclaration  string
	DirectoryDeclaration string
}

// DeclarationFileFor returns the declaration file that lists the children
// of dir.
func (l Layout) DeclarationFileFor(dir string) string {
	if filepath.Clean(dir) == filepath.Clean(l.Root) {
		return filepath.Join(l.Root, l.TopLevelDeclaration)
	}
	return filepath.Join(dir, l.DirectoryDeclaration)
}

type Scaffolder struct {
	fs     afero.Fs
	layout Layout
	log    *logger.Logger

	mu      sync.Mutex
	ensured map[string]struct{}
}

func NewScaffolder(fs afero.Fs, layout Layout, log *logger.Logger) *Scaffolder {
	return &Scaffolder{
		fs:      fs,
		layout:  layout,
		log:     log,
		ensured: make(map[string]struct{}),
	}
}

// EnsureModulePath makes every directory along destRelDir (relative to the
// output root) a declared module. Safe to call repeatedly for the same or
// overlapping paths.
func (s *Scaffolder) EnsureModulePath(destRelDir string) error {
	prefix := s.layout.Root
	for _, component := range naming.SplitComponents(destRelDir) {
		prefix = filepath.Join(prefix, component)
		if err := s.ensureModuleAt(prefix); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scaffolder) ensureModuleAt(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ensured[dir]; ok {
		return nil
	}

	info, err := s.fs.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		s.log.Debug("Directory already exists: %s", dir)
	case err == nil:
		return fmt.Errorf("%w: %s", ErrModulePathIsFile, dir)
	case os.IsNotExist(err):
		if err := s.createModule(dir); err != nil {
			return err
		}
	default:
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	s.ensured[dir] = struct{}{}
	return nil
}

func (s *Scaffolder) createModule(dir string) error {
	s.log.Debug("Creating new directory: %s", dir)
	if err := s.fs.Mkdir(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	declFile := filepath.Join(dir, s.layout.DirectoryDeclaration)
	s.log.Debug("Creating new file %s: %s", s.layout.DirectoryDeclaration, declFile)
	f, err := s.fs.Create(declFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", declFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", declFile, err)
	}

	parentDecl := s.layout.DeclarationFileFor(filepath.Dir(dir))
	s.log.Debug("Declaring new module in parent module: %s", parentDecl)
	return AppendDeclaration(s.fs, parentDecl, filepath.Base(dir))
}

// AppendDeclaration appends a child module statement to an existing
// declaration file. The file is never created here: a missing parent
// declaration means the tree is inconsistent.
func AppendDeclaration(fs afero.Fs, declFile, moduleName string) error {
	f, err := fs.OpenFile(declFile, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("failed to open declaration file %s: %w", declFile, err)
	}

	if _, err := f.Write([]byte(naming.Declaration(moduleName))); err != nil {
		f.Close()
		return fmt.Errorf("failed to declare module %s in %s: %w", moduleName, declFile, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close declaration file %s: %w", declFile, err)
	}
	return nil
}
