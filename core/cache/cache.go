// Package cache stores translator output keyed by header content, so
// unchanged headers skip the translator on later runs.
package cache

import (
	"crypto/md5"
	"fmt"
	"io"
	"time"
)

// Store is a translation cache. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key, sourceRel string, data []byte) error
	Stats() *Stats
	Close() error
}

type Stats struct {
	Name       string    `json:"name"`
	Entries    int       `json:"entries"`
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	HitRate    float64   `json:"hit_rate"`
	LastUpdate time.Time `json:"last_update"`
}

func (s *Stats) CalculateHitRate() {
	total := s.Hits + s.Misses
	if total > 0 {
		s.HitRate = float64(s.Hits) / float64(total) * 100
	} else {
		s.HitRate = 0
	}
}

// Key hashes the header content together with a translator fingerprint so a
// change of translator settings never serves stale output.
func Key(content io.Reader, fingerprint string) (string, error) {
	hash := md5.New()
	if _, err := io.WriteString(hash, fingerprint+"\x00"); err != nil {
		return "", err
	}
	if _, err := io.Copy(hash, content); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
