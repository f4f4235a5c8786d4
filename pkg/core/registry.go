package core

import (
	stderrors "errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-drift/shadowtree/pkg/errors"
	"github.com/go-drift/shadowtree/pkg/logging"
)

// Resolver looks up descriptors by kind name. *Registry implements it.
type Resolver interface {
	Lookup(kind KindName) (Descriptor, bool)
}

// Observer receives registry activity. Implementations must be safe for
// concurrent use.
type Observer interface {
	NodeCreated(kind KindName)
	NodeCloned(kind KindName)
	LookupMissed(kind KindName)
	PropsRejected(kind KindName)
}

type nopObserver struct{}

func (nopObserver) NodeCreated(KindName)   {}
func (nopObserver) NodeCloned(KindName)    {}
func (nopObserver) LookupMissed(KindName)  {}
func (nopObserver) PropsRejected(KindName) {}

// Registry maps kind names to descriptors.
//
// The default registry is write-once: the first Lookup (or an explicit
// Freeze) freezes it, after which lookups read the map without locking and
// Register fails. Registering concurrently with the first Lookup is a data
// race. WithConcurrentRegistration guards every access with a RWMutex instead.
type Registry struct {
	descriptors map[KindName]Descriptor
	frozen      atomic.Bool

	concurrent bool
	mu         sync.RWMutex

	logger   *slog.Logger
	observer Observer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger. Defaults to [logging.Logger].
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithObserver attaches an observer for created, cloned and missed kinds.
func WithObserver(o Observer) RegistryOption {
	return func(r *Registry) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithConcurrentRegistration keeps registration open after lookups start and
// serializes Register against Lookup with a RWMutex.
func WithConcurrentRegistration() RegistryOption {
	return func(r *Registry) {
		r.concurrent = true
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		descriptors: make(map[KindName]Descriptor),
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logging.Logger()
}

// Register binds d to its kind name. It fails with a DuplicateKind error if
// the kind is already bound, leaving the first registration in place.
func (r *Registry) Register(d Descriptor) error {
	const op = "core.Registry.Register"
	if d == nil {
		return errors.Configuration(op, "", "nil descriptor")
	}
	kind := d.Kind()
	if kind == "" {
		return errors.Configuration(op, "", "descriptor %T has an empty kind name", d)
	}

	if r.concurrent {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	if r.frozen.Load() {
		return errors.Configuration(op, string(kind), "registry is frozen")
	}
	if _, exists := r.descriptors[kind]; exists {
		return errors.DuplicateKind(op, string(kind))
	}
	r.descriptors[kind] = d
	r.log().Debug("descriptor registered", "kind", kind, "container", d.IsContainer())
	return nil
}

// MustRegister registers every descriptor and panics on the first error.
// Intended for startup code, where a duplicate kind is a build defect.
func (r *Registry) MustRegister(ds ...Descriptor) {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Freeze ends registration. Subsequent Register calls fail.
func (r *Registry) Freeze() {
	if r.concurrent {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	r.frozen.Store(true)
}

// Frozen reports whether registration has ended.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// Lookup returns the descriptor bound to kind. ok is false for unknown kinds.
func (r *Registry) Lookup(kind KindName) (d Descriptor, ok bool) {
	if r.concurrent {
		r.mu.RLock()
		d, ok = r.descriptors[kind]
		r.mu.RUnlock()
	} else {
		if !r.frozen.Load() {
			r.frozen.Store(true)
		}
		d, ok = r.descriptors[kind]
	}
	if !ok {
		r.observer.LookupMissed(kind)
		r.log().Debug("descriptor lookup missed", "kind", kind)
	}
	return d, ok
}

// Resolve is Lookup returning an UnknownKind error on a miss.
func (r *Registry) Resolve(kind KindName) (Descriptor, error) {
	d, ok := r.Lookup(kind)
	if !ok {
		return nil, errors.UnknownKind("core.Registry.Resolve", string(kind))
	}
	return d, nil
}

// Kinds returns the registered kind names in sorted order.
func (r *Registry) Kinds() []KindName {
	if r.concurrent {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	kinds := make([]KindName, 0, len(r.descriptors))
	for k := range r.descriptors {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	if r.concurrent {
		r.mu.RLock()
		defer r.mu.RUnlock()
	}
	return len(r.descriptors)
}

// Create resolves kind and creates a node, notifying the observer.
func (r *Registry) Create(kind KindName, props RawProps) (Node, error) {
	d, err := r.Resolve(kind)
	if err != nil {
		return nil, err
	}
	n, err := d.Create(kind, props)
	if err != nil {
		r.rejected(kind, err)
		return nil, err
	}
	r.observer.NodeCreated(kind)
	return n, nil
}

// CloneWithProps resolves n's kind and clones it with merged props.
func (r *Registry) CloneWithProps(n Node, props RawProps) (Node, error) {
	if isNilNode(n) {
		return nil, errors.Configuration("core.Registry.CloneWithProps", "", "nil node")
	}
	d, err := r.Resolve(n.Kind())
	if err != nil {
		return nil, err
	}
	clone, err := d.CloneWithProps(n, props)
	if err != nil {
		r.rejected(n.Kind(), err)
		return nil, err
	}
	r.observer.NodeCloned(n.Kind())
	return clone, nil
}

// CloneWithChildren resolves n's kind and clones it with a new child list.
func (r *Registry) CloneWithChildren(n Node, children []Node) (Node, error) {
	if isNilNode(n) {
		return nil, errors.Configuration("core.Registry.CloneWithChildren", "", "nil node")
	}
	d, err := r.Resolve(n.Kind())
	if err != nil {
		return nil, err
	}
	clone, err := d.CloneWithChildren(n, children)
	if err != nil {
		return nil, err
	}
	r.observer.NodeCloned(n.Kind())
	return clone, nil
}

func (r *Registry) rejected(kind KindName, err error) {
	if stderrors.Is(err, errors.ErrInvalidProps) {
		r.observer.PropsRejected(kind)
	}
}
