package cache

import "errors"

// Layered consults a fast store before a slow one and promotes slow hits.
type Layered struct {
	fast Store
	slow Store
}

func NewLayered(fast, slow Store) *Layered {
	return &Layered{fast: fast, slow: slow}
}

func (l *Layered) Get(key string) ([]byte, bool) {
	if data, ok := l.fast.Get(key); ok {
		return data, true
	}
	data, ok := l.slow.Get(key)
	if ok {
		_ = l.fast.Put(key, "", data)
	}
	return data, ok
}

func (l *Layered) Put(key, sourceRel string, data []byte) error {
	if err := l.fast.Put(key, sourceRel, data); err != nil {
		return err
	}
	return l.slow.Put(key, sourceRel, data)
}

// Stats reports the slow layer, which is the one that outlives the run.
func (l *Layered) Stats() *Stats {
	return l.slow.Stats()
}

// AllStats returns both layers keyed by name.
func (l *Layered) AllStats() map[string]*Stats {
	fast, slow := l.fast.Stats(), l.slow.Stats()
	return map[string]*Stats{fast.Name: fast, slow.Name: slow}
}

func (l *Layered) Close() error {
	return errors.Join(l.fast.Close(), l.slow.Close())
}
