package core

import (
	"reflect"
	"slices"

	"github.com/go-drift/shadowtree/pkg/errors"
)

// Walk visits root and its descendants depth-first in pre-order. Returning
// false from fn skips the node's children.
func Walk(root Node, fn func(n Node, depth int) bool) {
	if isNilNode(root) {
		return
	}
	walk(root, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, child := range childrenOf(n) {
		walk(child, depth+1, fn)
	}
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root Node) int {
	count := 0
	Walk(root, func(Node, int) bool {
		count++
		return true
	})
	return count
}

// Equal reports whether two trees have the same kinds, props and child
// structure. Identical subtrees are accepted without descending into them.
func Equal(a, b Node) bool {
	if isNilNode(a) || isNilNode(b) {
		return isNilNode(a) && isNilNode(b)
	}
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() || reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if !reflect.DeepEqual(a.Props(), b.Props()) {
		return false
	}
	ac, bc := childrenOf(a), childrenOf(b)
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equal(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// CheckTree verifies that no node is reachable twice from root, i.e. that
// every node has at most one parent.
func CheckTree(root Node) error {
	seen := make(map[Node]struct{})
	var err error
	Walk(root, func(n Node, _ int) bool {
		if err != nil {
			return false
		}
		if _, dup := seen[n]; dup {
			err = errors.InvalidChildren("core.CheckTree", string(n.Kind()), "node %p is reachable more than once", n)
			return false
		}
		seen[n] = struct{}{}
		return true
	})
	return err
}

// AppendChild returns a copy of parent with child added at the end.
func AppendChild(r Resolver, parent Node, child Node) (Node, error) {
	return editChildren(r, "core.AppendChild", parent, func(children []Node) ([]Node, error) {
		return append(children, child), nil
	})
}

// InsertChild returns a copy of parent with child inserted at index.
func InsertChild(r Resolver, parent Node, index int, child Node) (Node, error) {
	return editChildren(r, "core.InsertChild", parent, func(children []Node) ([]Node, error) {
		if index < 0 || index > len(children) {
			return nil, errors.InvalidChildren("core.InsertChild", string(parent.Kind()), "index %d out of range [0,%d]", index, len(children))
		}
		return slices.Insert(children, index, child), nil
	})
}

// RemoveChild returns a copy of parent without the child at index.
func RemoveChild(r Resolver, parent Node, index int) (Node, error) {
	return editChildren(r, "core.RemoveChild", parent, func(children []Node) ([]Node, error) {
		if index < 0 || index >= len(children) {
			return nil, errors.InvalidChildren("core.RemoveChild", string(parent.Kind()), "index %d out of range [0,%d)", index, len(children))
		}
		return slices.Delete(children, index, index+1), nil
	})
}

// ReplaceChild returns a copy of parent with the child at index replaced.
func ReplaceChild(r Resolver, parent Node, index int, child Node) (Node, error) {
	return editChildren(r, "core.ReplaceChild", parent, func(children []Node) ([]Node, error) {
		if index < 0 || index >= len(children) {
			return nil, errors.InvalidChildren("core.ReplaceChild", string(parent.Kind()), "index %d out of range [0,%d)", index, len(children))
		}
		children[index] = child
		return children, nil
	})
}

// ReplaceAt returns a new root in which the node at path (child indexes from
// root) is replaced. Ancestors on the path are cloned; everything else is
// shared with the old tree. An empty path replaces the root itself.
func ReplaceAt(r Resolver, root Node, path []int, replacement Node) (Node, error) {
	if len(path) == 0 {
		return replacement, nil
	}
	children := childrenOf(root)
	i := path[0]
	if i < 0 || i >= len(children) {
		return nil, errors.InvalidChildren("core.ReplaceAt", kindOf(root), "index %d out of range [0,%d)", i, len(children))
	}
	updated, err := ReplaceAt(r, children[i], path[1:], replacement)
	if err != nil {
		return nil, err
	}
	if updated == children[i] {
		return root, nil
	}
	return ReplaceChild(r, root, i, updated)
}

// editChildren hands edit a private copy of parent's children and clones
// parent with the result.
func editChildren(r Resolver, op string, parent Node, edit func([]Node) ([]Node, error)) (Node, error) {
	if isNilNode(parent) {
		return nil, errors.Configuration(op, "", "nil parent")
	}
	if !IsContainer(parent) {
		return nil, errors.InvalidChildren(op, string(parent.Kind()), "%s does not accept children", parent.Kind())
	}
	d, ok := r.Lookup(parent.Kind())
	if !ok {
		return nil, errors.UnknownKind(op, string(parent.Kind()))
	}
	children, err := edit(slices.Clone(childrenOf(parent)))
	if err != nil {
		return nil, err
	}
	return d.CloneWithChildren(parent, children)
}
