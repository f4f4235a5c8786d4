package core

import (
	"reflect"
	"slices"
)

// KindName identifies a node kind. Kind names are stable contract surface:
// renaming one breaks every serialized reference to it.
type KindName string

func (k KindName) String() string {
	return string(k)
}

// RawProps holds untyped props as produced by an upstream parser.
type RawProps map[string]any

// Node is an immutable unit of a shadow tree.
//
// Node is implemented only by types embedding [Base].
type Node interface {
	// Kind returns the node's kind name.
	Kind() KindName
	// Props returns the node's typed props value. Callers must treat it as
	// read-only.
	Props() any

	sealed()
}

// Parent is a node that owns an ordered sequence of children.
type Parent interface {
	Node
	// Children returns a copy of the child list.
	Children() []Node
	// ChildCount returns the number of children.
	ChildCount() int
	// ChildAt returns the child at index i. It panics if i is out of range.
	ChildAt(i int) Node
}

// ChildAcceptor is implemented by container nodes that restrict which
// children they accept. It is consulted with the node's new props already
// bound.
type ChildAcceptor interface {
	AcceptChild(child Node) error
}

// Base carries the kind and props of a concrete node. Embed it by value.
type Base[P any] struct {
	kind  KindName
	props P
}

// Kind returns the node's kind name.
func (b *Base[P]) Kind() KindName {
	return b.kind
}

// Props returns the props as an untyped value.
func (b *Base[P]) Props() any {
	return b.props
}

// TypedProps returns the props. Slices and maps inside are shared with the
// node and must not be modified.
func (b *Base[P]) TypedProps() P {
	return b.props
}

func (b *Base[P]) sealed() {}

func (b *Base[P]) bind(kind KindName, props P) {
	b.kind = kind
	b.props = props
}

// Container holds the children of a container node. Embed it next to [Base].
type Container struct {
	children []Node
}

// Children returns a copy of the child list.
func (c *Container) Children() []Node {
	return slices.Clone(c.children)
}

// ChildCount returns the number of children.
func (c *Container) ChildCount() int {
	return len(c.children)
}

// ChildAt returns the child at index i.
func (c *Container) ChildAt(i int) Node {
	return c.children[i]
}

func (c *Container) adopt(children []Node) {
	c.children = children
}

func (c *Container) childList() []Node {
	return c.children
}

// adopter is satisfied by node types embedding Container.
type adopter interface {
	adopt(children []Node)
	childList() []Node
}

// childrenOf returns the internal child slice of n without copying.
func childrenOf(n Node) []Node {
	if a, ok := n.(adopter); ok {
		return a.childList()
	}
	return nil
}

// IsContainer reports whether n can own children.
func IsContainer(n Node) bool {
	_, ok := n.(adopter)
	return ok
}

func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func kindOf(n Node) string {
	if isNilNode(n) {
		return ""
	}
	return string(n.Kind())
}
