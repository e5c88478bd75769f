package translator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tristendillon/headersync/core/cache"
	"github.com/tristendillon/headersync/core/logger"
)

// Cached serves translations from a cache keyed by header content. Only
// successful translations are stored.
type Cached struct {
	Next        Translator
	Store       cache.Store
	Fs          afero.Fs
	SourceRoot  string
	Fingerprint string
	Log         *logger.Logger

	lastHit bool
}

func (c *Cached) Translate(ctx context.Context, logicalName string) ([]byte, error) {
	c.lastHit = false

	key, err := c.key(logicalName)
	if err != nil {
		return nil, err
	}

	if data, ok := c.Store.Get(key); ok {
		c.Log.Debug("Cache hit for %s", logicalName)
		c.lastHit = true
		return data, nil
	}

	data, err := c.Next.Translate(ctx, logicalName)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Put(key, logicalName, data); err != nil {
		c.Log.Warn("Failed to cache translation for %s: %v", logicalName, err)
	}
	return data, nil
}

// LastWasHit reports whether the previous Translate call came from cache.
func (c *Cached) LastWasHit() bool {
	return c.lastHit
}

func (c *Cached) key(logicalName string) (string, error) {
	p := filepath.Join(c.SourceRoot, filepath.FromSlash(logicalName))
	f, err := c.Fs.Open(p)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for hashing: %w", p, err)
	}
	defer f.Close()

	key, err := cache.Key(f, c.Fingerprint)
	if err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", p, err)
	}
	return key, nil
}
