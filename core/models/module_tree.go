package models

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/ddddddO/gtree"
	"github.com/tristendillon/headersync/core/naming"
)

type ModuleNode struct {
	Name     string
	IsLeaf   bool
	Failed   bool
	Children map[string]*ModuleNode
	Parent   *ModuleNode
	Depth    int
}

// ModuleTree mirrors the declared module hierarchy of an output tree.
type ModuleTree struct {
	Root *ModuleNode
}

func NewModuleTree(rootName string) *ModuleTree {
	return &ModuleTree{
		Root: &ModuleNode{
			Name:     rootName,
			Children: make(map[string]*ModuleNode),
		},
	}
}

// AddModule registers the destination file destRel (relative to the output
// root) and every module directory leading to it.
func (mt *ModuleTree) AddModule(destRel string, failed bool) {
	parts := naming.SplitComponents(filepath.ToSlash(destRel))
	if len(parts) == 0 {
		return
	}
	last := len(parts) - 1
	parts[last] = naming.SanitizeComponent(trimExt(parts[last]))

	current := mt.Root
	for i, part := range parts {
		child, exists := current.Children[part]
		if !exists {
			child = &ModuleNode{
				Name:     part,
				Children: make(map[string]*ModuleNode),
				Parent:   current,
				Depth:    i + 1,
			}
			current.Children[part] = child
		}
		current = child
	}
	current.IsLeaf = true
	current.Failed = failed
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

func (mt *ModuleTree) CountModules() int {
	return countNodes(mt.Root) - 1
}

func countNodes(n *ModuleNode) int {
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	return total
}

// Render writes the tree with gtree, children in lexical order. Failed
// leaves are marked so a glance shows which modules are placeholders.
func (mt *ModuleTree) Render(w io.Writer) error {
	root := gtree.NewRoot(mt.Root.Name)
	mt.addChildren(root, mt.Root)
	if err := gtree.OutputFromRoot(w, root); err != nil {
		return fmt.Errorf("failed to render module tree: %w", err)
	}
	return nil
}

func (mt *ModuleTree) addChildren(dst *gtree.Node, src *ModuleNode) {
	keys := make([]string, 0, len(src.Children))
	for k := range src.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		child := src.Children[key]
		label := child.Name
		if child.Failed {
			label += " (placeholder)"
		}
		mt.addChildren(dst.Add(label), child)
	}
}
