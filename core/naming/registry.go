package naming

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/tristendillon/headersync/core/logger"
)

var ErrCollision = errors.New("module name collision")

type CollisionPolicy string

const (
	CollisionFail   CollisionPolicy = "fail"
	CollisionWarn   CollisionPolicy = "warn"
	CollisionIgnore CollisionPolicy = "ignore"
)

// Registry remembers which source path first claimed each module name under
// a given parent module.
//
// Two kinds of clash are told apart. A rename collision is two different
// source names sanitizing to one module ("a-b" and "a_b"). A stem clash is a
// header next to a directory of the same name ("can.h" and "can/"): nothing
// was renamed, the module is simply declared once for each.
type Registry struct {
	policy     CollisionPolicy
	stemPolicy CollisionPolicy
	log        *logger.Logger

	mu     sync.Mutex
	claims map[string]claim
}

type claim struct {
	kind string // "file" or "dir"
	path string // slash separated source path; files keep their extension
}

func (c claim) String() string {
	return c.kind + ":" + c.path
}

func (c claim) stem() string {
	if c.kind == "file" {
		return strings.TrimSuffix(c.path, path.Ext(c.path))
	}
	return c.path
}

func NewRegistry(policy, stemPolicy CollisionPolicy, log *logger.Logger) *Registry {
	return &Registry{
		policy:     policy,
		stemPolicy: stemPolicy,
		log:        log,
		claims:     make(map[string]claim),
	}
}

// ClaimPath claims every module along sourceRel: each directory component
// and the file stem. Paths are slash separated.
func (r *Registry) ClaimPath(sourceRel string) error {
	if r.policy == CollisionIgnore && r.stemPolicy == CollisionIgnore {
		return nil
	}

	parts := SplitComponents(sourceRel)
	if len(parts) == 0 {
		return nil
	}

	parentModule := ""
	for i, part := range parts {
		c := claim{kind: "dir", path: path.Join(parts[:i+1]...)}
		name := part
		if i == len(parts)-1 {
			c.kind = "file"
			name = part[:len(part)-len(path.Ext(part))]
		}
		module := SanitizeComponent(name)

		if err := r.claim(parentModule, module, c); err != nil {
			return err
		}
		parentModule = path.Join(parentModule, module)
	}
	return nil
}

func (r *Registry) claim(parentModule, module string, c claim) error {
	key := parentModule + "::" + module

	r.mu.Lock()
	existing, ok := r.claims[key]
	if !ok {
		r.claims[key] = c
	}
	r.mu.Unlock()

	if !ok || existing == c {
		return nil
	}

	policy, label := r.policy, "Module name collision"
	if existing.kind != c.kind && existing.stem() == c.stem() {
		policy, label = r.stemPolicy, "Module declared as both file and directory"
	}

	where := parentModule
	if where == "" {
		where = "<root>"
	}
	msg := fmt.Sprintf("module %q in %s claimed by both %s and %s", module, where, existing, c)
	switch policy {
	case CollisionIgnore:
		return nil
	case CollisionWarn:
		r.log.Warn("%s: %s", label, msg)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrCollision, msg)
}
