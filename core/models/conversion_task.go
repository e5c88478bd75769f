package models

import (
	"fmt"
	"path/filepath"
)

// ConversionTask binds one input header to its destination module. Tasks
// live for a single conversion and are never persisted.
type ConversionTask struct {
	SourcePath string // absolute path of the header
	SourceRel  string // slash separated, relative to the source root; the translator's include name
	DestRel    string // sanitized, relative to the output root
	DestPath   string // absolute path of the generated module
}

func NewConversionTask(sourceRoot, outputRoot, sourcePath string, derive func(string) string) (*ConversionTask, error) {
	rel, err := filepath.Rel(sourceRoot, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to relativize %s: %w", sourcePath, err)
	}
	sourceRel := filepath.ToSlash(rel)
	destRel := derive(sourceRel)

	return &ConversionTask{
		SourcePath: sourcePath,
		SourceRel:  sourceRel,
		DestRel:    destRel,
		DestPath:   filepath.Join(outputRoot, destRel),
	}, nil
}

// DestRelDir is the module path leading to the destination file.
func (t *ConversionTask) DestRelDir() string {
	return filepath.Dir(t.DestRel)
}

type OutcomeStatus int

const (
	OutcomeTranslated OutcomeStatus = iota
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeTranslated:
		return "translated"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Outcome struct {
	Status   OutcomeStatus
	CacheHit bool
	Err      error // translator error for failed outcomes
}
