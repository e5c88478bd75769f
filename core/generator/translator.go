package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tristendillon/headersync/core/cache"
	"github.com/tristendillon/headersync/core/config"
	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/translator"
)

// BuildTranslator assembles the configured translator, wrapped in the
// translation cache when enabled. The returned func releases the cache.
func BuildTranslator(cfg *config.Config, fs afero.Fs, log *logger.Logger) (translator.Translator, func() error, error) {
	exec := &translator.Exec{
		Command:     cfg.Translator.Command,
		SourceRoot:  cfg.SourceRoot,
		HiddenTypes: cfg.Translator.HiddenTypes,
		Timeout:     cfg.Translator.Timeout,
		Log:         log,
	}
	noop := func() error { return nil }

	if !cfg.Cache.Enabled {
		return exec, noop, nil
	}

	if err := fs.MkdirAll(filepath.Dir(cfg.Cache.Path), os.ModePerm); err != nil {
		return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	mem, err := cache.NewMemory(cfg.Cache.MaxEntries)
	if err != nil {
		return nil, nil, err
	}
	disk, err := cache.OpenSQLite(cfg.Cache.Path)
	if err != nil {
		return nil, nil, err
	}
	store := cache.NewLayered(mem, disk)
	log.Debug("Translation cache enabled at %s", cfg.Cache.Path)

	cached := &translator.Cached{
		Next:        exec,
		Store:       store,
		Fs:          fs,
		SourceRoot:  cfg.SourceRoot,
		Fingerprint: exec.Fingerprint(),
		Log:         log,
	}

	closeFn := func() error {
		for name, s := range store.AllStats() {
			log.Debug("Cache stats (%s): Hits=%d, Misses=%d, Hit Rate=%.1f%%, Entries=%d",
				name, s.Hits, s.Misses, s.HitRate, s.Entries)
		}
		return store.Close()
	}
	return cached, closeFn, nil
}
