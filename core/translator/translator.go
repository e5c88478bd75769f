// Package translator invokes the external header-to-binding translator.
package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyOutput = errors.New("translator produced no output")

// Translator converts one logical header (an include name relative to the
// source root, e.g. "linux/if.h") into module source.
type Translator interface {
	Translate(ctx context.Context, logicalName string) ([]byte, error)
}

// Func adapts a plain function to Translator.
type Func func(ctx context.Context, logicalName string) ([]byte, error)

func (f Func) Translate(ctx context.Context, logicalName string) ([]byte, error) {
	return f(ctx, logicalName)
}

// Error is a failed translation of a single header. It is always a soft
// failure for the run.
type Error struct {
	Header   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("failed to generate bindings for '%s'", e.Header)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HiddenTypesPattern builds the anchored alternation of type names the
// translator should leave out. Empty when there is nothing to hide.
func HiddenTypesPattern(types []string) string {
	if len(types) == 0 {
		return ""
	}
	return "^(" + strings.Join(types, "|") + ")$"
}
