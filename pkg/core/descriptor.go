package core

import (
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/go-drift/shadowtree/pkg/errors"
)

// Descriptor is a stateless factory for the nodes of exactly one kind.
// Descriptors have no side effects; all methods are safe for concurrent use.
type Descriptor interface {
	// Kind returns the kind this descriptor produces.
	Kind() KindName
	// Create decodes props onto the kind's defaults and returns a new node.
	// kind must equal Kind().
	Create(kind KindName, props RawProps) (Node, error)
	// CloneWithProps returns a copy of n with props merged over n's props.
	// n is left unchanged; its children are shared with the copy.
	CloneWithProps(n Node, props RawProps) (Node, error)
	// CloneWithChildren returns a copy of n with the given child list.
	CloneWithChildren(n Node, children []Node) (Node, error)
	// Owns reports whether n was produced by this descriptor's kind.
	Owns(n Node) bool
	// IsContainer reports whether nodes of this kind own children.
	IsContainer() bool
}

// ShadowNode constrains the concrete node types a [ConcreteDescriptor] can
// bind: a pointer to a struct embedding Base[P].
type ShadowNode[T any, P any] interface {
	*T
	Node
	TypedProps() P
	bind(kind KindName, props P)
}

// ConcreteDescriptor binds one kind name to one concrete node type T with
// props type P. N is inferred as *T:
//
//	core.NewConcreteDescriptor[Rect, RectProps]("Rect")
type ConcreteDescriptor[T any, P any, N ShadowNode[T, P]] struct {
	kind      KindName
	defaults  P
	container bool
}

// DescriptorOption configures a [ConcreteDescriptor].
type DescriptorOption[P any] func(*P)

// WithDefaultProps sets the props that Create decodes raw props onto.
func WithDefaultProps[P any](defaults P) DescriptorOption[P] {
	return func(p *P) {
		*p = defaults
	}
}

// NewConcreteDescriptor returns a descriptor for kind producing *T nodes.
func NewConcreteDescriptor[T any, P any, N ShadowNode[T, P]](kind KindName, opts ...DescriptorOption[P]) *ConcreteDescriptor[T, P, N] {
	d := &ConcreteDescriptor[T, P, N]{kind: kind}
	for _, opt := range opts {
		opt(&d.defaults)
	}
	_, d.container = any(N(new(T))).(adopter)
	return d
}

// Kind returns the kind this descriptor produces.
func (d *ConcreteDescriptor[T, P, N]) Kind() KindName {
	return d.kind
}

// IsContainer reports whether T embeds Container.
func (d *ConcreteDescriptor[T, P, N]) IsContainer() bool {
	return d.container
}

// Defaults returns the props Create starts from.
func (d *ConcreteDescriptor[T, P, N]) Defaults() P {
	return d.defaults
}

// Owns reports whether n is a *T of this descriptor's kind.
func (d *ConcreteDescriptor[T, P, N]) Owns(n Node) bool {
	src, ok := n.(N)
	return ok && src != nil && src.Kind() == d.kind
}

// Create implements [Descriptor].
func (d *ConcreteDescriptor[T, P, N]) Create(kind KindName, props RawProps) (Node, error) {
	const op = "core.Descriptor.Create"
	if kind != d.kind {
		return nil, errors.Configuration(op, string(kind), "descriptor for %q cannot create %q", d.kind, kind)
	}
	typed := d.defaults
	if err := decodeProps(&typed, props); err != nil {
		return nil, errors.InvalidProps(op, string(d.kind), err)
	}
	n, err := d.build(op, typed, nil)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// CloneWithProps implements [Descriptor].
func (d *ConcreteDescriptor[T, P, N]) CloneWithProps(n Node, props RawProps) (Node, error) {
	const op = "core.Descriptor.CloneWithProps"
	src, err := d.owned(op, n)
	if err != nil {
		return nil, err
	}
	typed := src.TypedProps()
	if err := decodeProps(&typed, props); err != nil {
		return nil, errors.InvalidProps(op, string(d.kind), err)
	}
	clone, err := d.build(op, typed, childrenOf(src))
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// CloneWithChildren implements [Descriptor].
func (d *ConcreteDescriptor[T, P, N]) CloneWithChildren(n Node, children []Node) (Node, error) {
	const op = "core.Descriptor.CloneWithChildren"
	src, err := d.owned(op, n)
	if err != nil {
		return nil, err
	}
	if !d.container {
		return nil, errors.InvalidChildren(op, string(d.kind), "%s does not accept children", d.kind)
	}
	clone, err := d.build(op, src.TypedProps(), children)
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// New returns a node with exactly the given props and children. Unlike
// Create, props are not merged onto the defaults.
func (d *ConcreteDescriptor[T, P, N]) New(props P, children ...Node) (N, error) {
	return d.build("core.Descriptor.New", props, children)
}

// Clone returns a copy of n with replaced props and the same children.
func (d *ConcreteDescriptor[T, P, N]) Clone(n N, props P) (N, error) {
	const op = "core.Descriptor.Clone"
	if _, err := d.owned(op, n); err != nil {
		return nil, err
	}
	return d.build(op, props, childrenOf(n))
}

func (d *ConcreteDescriptor[T, P, N]) owned(op string, n Node) (N, error) {
	src, ok := n.(N)
	if !ok || src == nil || src.Kind() != d.kind {
		return nil, errors.Configuration(op, kindOf(n), "node %T is not a %q node", n, d.kind)
	}
	return src, nil
}

func (d *ConcreteDescriptor[T, P, N]) build(op string, props P, children []Node) (N, error) {
	if err := validateProps(&props); err != nil {
		return nil, errors.InvalidProps(op, string(d.kind), err)
	}
	n := N(new(T))
	n.bind(d.kind, props)
	if len(children) == 0 {
		return n, nil
	}

	a, ok := any(n).(adopter)
	if !ok {
		return nil, errors.InvalidChildren(op, string(d.kind), "%s does not accept children", d.kind)
	}
	acceptor, _ := any(n).(ChildAcceptor)
	seen := make(map[Node]struct{}, len(children))
	for i, child := range children {
		if isNilNode(child) {
			return nil, errors.InvalidChildren(op, string(d.kind), "child %d is nil", i)
		}
		if _, dup := seen[child]; dup {
			return nil, errors.InvalidChildren(op, string(d.kind), "child %d (%s) appears more than once", i, child.Kind())
		}
		seen[child] = struct{}{}
		if acceptor != nil {
			if err := acceptor.AcceptChild(child); err != nil {
				return nil, errors.New(op, errors.KindInvalidChildren, string(d.kind), err)
			}
		}
	}
	a.adopt(slices.Clone(children))
	return n, nil
}

// validator is implemented by props types that check their own invariants.
type validator interface {
	Validate() error
}

func validateProps[P any](props *P) error {
	if v, ok := any(*props).(validator); ok {
		return v.Validate()
	}
	if v, ok := any(props).(validator); ok {
		return v.Validate()
	}
	return nil
}

// decodeProps decodes raw onto dst. Types must match without coercion,
// unknown keys are rejected, and every written slice or map is freshly
// allocated so dst never aliases the props it was copied from. Floats are
// accepted for integer fields only when they hold a whole number.
func decodeProps(dst any, raw RawProps) error {
	if len(raw) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.DecodeHookFuncType(wholeNumberHook),
		),
		ErrorUnused: true,
		ZeroFields:  true,
		Result:      dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(raw))
}

// wholeNumberHook rejects floats with a fractional part, or outside the
// int64 range, bound for an integer field. mapstructure would truncate them.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%v is not a whole number for %s", f, to)
	}
	return data, nil
}

// EncodeProps converts typed props to RawProps keyed by their mapstructure
// names. Useful for diagnostics and snapshots.
func EncodeProps(props any) (RawProps, error) {
	out := RawProps{}
	if err := mapstructure.Decode(props, &out); err != nil {
		return nil, err
	}
	return out, nil
}
