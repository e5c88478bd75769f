package cache

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Memory struct {
	entries *lru.Cache[string, []byte]

	mu    sync.Mutex
	stats Stats
}

func NewMemory(maxEntries int) (*Memory, error) {
	entries, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &Memory{
		entries: entries,
		stats:   Stats{Name: "memory"},
	}, nil
}

func (m *Memory) Get(key string) ([]byte, bool) {
	data, ok := m.entries.Get(key)

	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.stats.Hits++
	} else {
		m.stats.Misses++
	}
	m.stats.LastUpdate = time.Now()
	return data, ok
}

func (m *Memory) Put(key, _ string, data []byte) error {
	m.entries.Add(key, data)
	return nil
}

func (m *Memory) Stats() *Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.Entries = m.entries.Len()
	s.CalculateHitRate()
	return &s
}

func (m *Memory) Close() error {
	m.entries.Purge()
	return nil
}
