package translator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"

	"github.com/tristendillon/headersync/core/logger"
	"github.com/tristendillon/headersync/core/naming"
)

// Exec runs a translator command line once per header. The command is a
// shell-style string expanded with these variables:
//
//	WRAPPER      temporary header containing "#include <HEADER>"
//	HEADER       the logical include name
//	SOURCE_ROOT  the absolute source root
//	HIDDEN_TYPES regex of hidden type names, empty when none
//
// Any other variable resolves from the process environment.
type Exec struct {
	Command     string
	SourceRoot  string
	HiddenTypes []string
	Timeout     time.Duration
	Log         *logger.Logger
}

func (e *Exec) Translate(ctx context.Context, logicalName string) ([]byte, error) {
	wrapper, cleanup, err := writeWrapper(logicalName)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	vars := map[string]string{
		"WRAPPER":      wrapper,
		"HEADER":       logicalName,
		"SOURCE_ROOT":  e.SourceRoot,
		"HIDDEN_TYPES": HiddenTypesPattern(e.HiddenTypes),
	}
	argv, err := shell.Fields(e.Command, func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse translator command %q: %w", e.Command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("translator command is empty")
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	e.Log.Debug("Attempting build bindings for '%s': %s", logicalName, strings.Join(argv, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 2 * time.Second

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &Error{Header: logicalName, ExitCode: exitErr.ExitCode(), Stderr: stderr.String(), Err: err}
		}
		if ctx.Err() != nil {
			return nil, &Error{Header: logicalName, Stderr: stderr.String(), Err: ctx.Err()}
		}
		// the translator binary itself could not be started
		return nil, fmt.Errorf("failed to run translator %s: %w", argv[0], err)
	}

	if stdout.Len() == 0 {
		return nil, &Error{Header: logicalName, Stderr: stderr.String(), Err: ErrEmptyOutput}
	}
	return stdout.Bytes(), nil
}

// Fingerprint identifies the translator configuration for cache keys.
func (e *Exec) Fingerprint() string {
	return e.Command + "\x00" + HiddenTypesPattern(e.HiddenTypes)
}

func writeWrapper(logicalName string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "headersync-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create wrapper directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	name := naming.SanitizeComponent(strings.TrimSuffix(logicalName, filepath.Ext(logicalName))) + ".h"
	path := filepath.Join(dir, name)
	content := fmt.Sprintf("#include <%s>\n", logicalName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write wrapper header: %w", err)
	}
	return path, cleanup, nil
}
