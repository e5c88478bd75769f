// Package report accumulates per-run conversion counts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tristendillon/headersync/core/models"
)

type Report struct {
	mu         sync.Mutex
	startedAt  time.Time
	considered int
	eligible   int
	translated int
	cacheHits  int
	failed     []string
	modules    *models.ModuleTree
}

func New(rootName string) *Report {
	return &Report{
		startedAt: time.Now(),
		modules:   models.NewModuleTree(rootName),
	}
}

// Consider counts a discovered file, eligible or not.
func (r *Report) Consider() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.considered++
}

func (r *Report) Record(task *models.ConversionTask, outcome models.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.eligible++
	if outcome.CacheHit {
		r.cacheHits++
	}
	switch outcome.Status {
	case models.OutcomeTranslated:
		r.translated++
	case models.OutcomeFailed:
		r.failed = append(r.failed, task.SourceRel)
	}
	r.modules.AddModule(task.DestRel, outcome.Status == models.OutcomeFailed)
}

// Modules returns the tree of every module recorded so far.
func (r *Report) Modules() *models.ModuleTree {
	return r.modules
}

type Summary struct {
	Considered int           `json:"considered"`
	Eligible   int           `json:"eligible"`
	Translated int           `json:"translated"`
	CacheHits  int           `json:"cache_hits"`
	Failed     []string      `json:"failed"`
	Duration   time.Duration `json:"duration_ns"`
}

func (r *Report) Summarize() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	failed := make([]string, len(r.failed))
	copy(failed, r.failed)

	return Summary{
		Considered: r.considered,
		Eligible:   r.eligible,
		Translated: r.translated,
		CacheHits:  r.cacheHits,
		Failed:     failed,
		Duration:   time.Since(r.startedAt),
	}
}

func (s Summary) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Considered %d files, %d headers, %d translated (%d from cache)\n",
		s.Considered, s.Eligible, s.Translated, s.CacheHits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nThe following %d bindings failed (of %d total):\n", len(s.Failed), s.Considered); err != nil {
		return err
	}
	for _, f := range s.Failed {
		if _, err := fmt.Fprintf(w, "\t%s\n", f); err != nil {
			return err
		}
	}
	return nil
}

func (s Summary) WriteJSON(w io.Writer) error {
	if s.Failed == nil {
		s.Failed = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
