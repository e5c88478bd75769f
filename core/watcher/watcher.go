package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/headersync/core/logger"
)

const DefaultDebounce = 500 * time.Millisecond

// FileWatcher watches a source tree and calls OnChange once a burst of
// filesystem events has settled. OnChange calls never overlap.
type FileWatcher struct {
	watcher      *fsnotify.Watcher
	RootDir      string
	ExcludePaths []string
	Debounce     time.Duration
	log          *logger.Logger

	mu            sync.Mutex
	debounceTimer *time.Timer
	runMu         sync.Mutex

	OnStart  func() error
	OnChange func() error
	OnClose  func() error
}

// NewFileWatcher creates a watcher for rootDir. Exclude paths may be
// absolute or relative to rootDir; .git is always excluded.
func NewFileWatcher(rootDir string, excludePaths []string, log *logger.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  w,
		RootDir:  filepath.Clean(rootDir),
		Debounce: DefaultDebounce,
		log:      log,
		OnStart:  func() error { return nil },
		OnChange: func() error { return fmt.Errorf("OnChange not set") },
		OnClose:  func() error { return nil },
	}
	for _, p := range append([]string{".git"}, excludePaths...) {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(fw.RootDir, p)
		}
		fw.ExcludePaths = append(fw.ExcludePaths, filepath.Clean(p))
	}
	log.Debug("Excluding paths: %v", fw.ExcludePaths)

	return fw, nil
}

// Watch blocks until ctx is done or the underlying watcher fails.
func (fw *FileWatcher) Watch(ctx context.Context) error {
	if err := fw.addWatchersRecursively(fw.RootDir); err != nil {
		return fmt.Errorf("failed to add watchers: %w", err)
	}

	if err := fw.OnStart(); err != nil {
		fw.log.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if fw.shouldExcludePath(event.Name) {
				continue
			}

			fw.log.Debug("File event: %s %s", event.Op, event.Name)

			if event.Has(fsnotify.Create) {
				if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
					if err := fw.addWatchersRecursively(event.Name); err != nil {
						fw.log.Warn("Failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			fw.debounceGenerate()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.log.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcher) debounceGenerate() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.Debounce, func() {
		fw.runMu.Lock()
		defer fw.runMu.Unlock()

		fw.log.Info("Header changes detected, regenerating...")
		if err := fw.OnChange(); err != nil {
			fw.log.Error("Watcher.OnChange failed: %v", err)
		}
	})
}

func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.mu.Unlock()

	// let an in-flight regeneration finish
	fw.runMu.Lock()
	defer fw.runMu.Unlock()

	if err := fw.OnClose(); err != nil {
		fw.log.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.watcher.Close()
}

func (fw *FileWatcher) shouldExcludePath(path string) bool {
	path = filepath.Clean(path)
	for _, excludePath := range fw.ExcludePaths {
		if path == excludePath {
			return true
		}
		if strings.HasPrefix(path, excludePath+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) addWatchersRecursively(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if fw.shouldExcludePath(path) {
			fw.log.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		fw.log.Debug("Adding watcher for: %s", path)
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}

		return nil
	})
}
