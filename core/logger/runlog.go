package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// RunLog is an append-only trace file attached to a Logger for the duration
// of one run.
type RunLog struct {
	Path   string
	file   afero.File
	logger *Logger
}

// OpenRunLog recreates the log file at path and attaches it as a sink.
func OpenRunLog(fs afero.Fs, path string, l *Logger) (*RunLog, error) {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove previous run log %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create run log directory: %w", err)
		}
	}

	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log %s: %w", path, err)
	}

	l.AddSink(f)
	return &RunLog{Path: path, file: f, logger: l}, nil
}

func (rl *RunLog) Close() error {
	rl.logger.RemoveSink(rl.file)
	return rl.file.Close()
}
