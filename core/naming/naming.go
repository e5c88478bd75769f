// Package naming maps source-relative header paths onto module paths.
//
// Sanitization is textual and component-local: it never looks at siblings,
// so two different source names may map to the same module name. The
// Registry in this package detects that case at runtime.
package naming

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// Namer derives destination paths and declaration statements for one
// output module system.
type Namer struct {
	ModuleExtension string
}

func NewNamer(moduleExtension string) *Namer {
	if !strings.HasPrefix(moduleExtension, ".") {
		moduleExtension = "." + moduleExtension
	}
	return &Namer{ModuleExtension: moduleExtension}
}

// Derive turns "asm-generic/int-ll64.h" into "asm_generic/int_ll64.rs".
// The input is slash or OS separated; the result uses the OS separator.
func (n *Namer) Derive(sourceRel string) string {
	sourceRel = filepath.ToSlash(sourceRel)
	dir, file := path.Split(sourceRel)
	stem := strings.TrimSuffix(file, path.Ext(file))

	parts := SplitComponents(dir)
	sanitized := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		sanitized = append(sanitized, SanitizeComponent(p))
	}
	sanitized = append(sanitized, SanitizeComponent(stem)+n.ModuleExtension)

	return filepath.Join(sanitized...)
}

// ModuleName is the module identifier of a destination file.
func (n *Namer) ModuleName(destRel string) string {
	base := filepath.Base(destRel)
	return SanitizeComponent(strings.TrimSuffix(base, filepath.Ext(base)))
}

// SanitizeComponent replaces every rune that is not legal in a module
// identifier with an underscore.
func SanitizeComponent(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		if isIdentRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// SplitComponents splits a relative path into its non-empty components.
func SplitComponents(rel string) []string {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(rel, "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}

// Declaration is the statement appended to a parent declaration file for
// a child module.
func Declaration(moduleName string) string {
	return fmt.Sprintf("\npub mod %s;\n", moduleName)
}
