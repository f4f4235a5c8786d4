package core

import (
	"fmt"
)

// Test kinds shared by the core tests.

type textProps struct {
	Content string   `mapstructure:"content"`
	Tags    []string `mapstructure:"tags"`
}

type textNode struct {
	Base[textProps]
}

type sizeProps struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

func (p sizeProps) Validate() error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("size must be non-negative, got %vx%v", p.Width, p.Height)
	}
	return nil
}

type boxNode struct {
	Base[sizeProps]
	Container
}

type listProps struct {
	Ordered bool `mapstructure:"ordered"`
}

// listNode only accepts text children.
type listNode struct {
	Base[listProps]
	Container
}

func (l *listNode) AcceptChild(child Node) error {
	if _, ok := child.(*textNode); !ok {
		return fmt.Errorf("list accepts only text, got %s", child.Kind())
	}
	return nil
}

func newTextDescriptor() *ConcreteDescriptor[textNode, textProps, *textNode] {
	return NewConcreteDescriptor[textNode, textProps]("text")
}

func newBoxDescriptor() *ConcreteDescriptor[boxNode, sizeProps, *boxNode] {
	return NewConcreteDescriptor[boxNode, sizeProps]("box", WithDefaultProps(sizeProps{Width: 1, Height: 1}))
}

func newListDescriptor() *ConcreteDescriptor[listNode, listProps, *listNode] {
	return NewConcreteDescriptor[listNode, listProps]("list")
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(newTextDescriptor(), newBoxDescriptor(), newListDescriptor())
	return r
}
