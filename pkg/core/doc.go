// Package core provides the typed node-descriptor registry and the immutable
// node tree it produces.
//
// # Core Types
//
// Node is an immutable, typed unit of a shadow tree. Every node has a
// KindName and a typed props value. Nodes that own children also implement
// Parent. Once a node is returned to a caller it never changes, so trees can
// be shared and read from any goroutine without synchronization.
//
// Descriptor is a stateless factory for exactly one kind. It creates nodes
// from untyped RawProps, clones nodes with merged props or a new child list,
// and identifies the nodes it owns.
//
// Registry maps kind names to descriptors. Tree builders only see kind names;
// they resolve the descriptor and never touch concrete node types.
//
// # Defining a Kind
//
// Embed Base in the node struct, and Container as well if the kind owns
// children. Then bind it with a ConcreteDescriptor:
//
//	type CircleProps struct {
//	    CX float64 `mapstructure:"cx"`
//	    CY float64 `mapstructure:"cy"`
//	    R  float64 `mapstructure:"r"`
//	}
//
//	type Circle struct {
//	    core.Base[CircleProps]
//	}
//
//	var CircleDescriptor = core.NewConcreteDescriptor[Circle, CircleProps]("Circle")
//
// Props implementing Validate() error are checked on every create and clone.
// Containers can restrict their children by implementing ChildAcceptor.
//
// # Editing Trees
//
// Edits never mutate. AppendChild, RemoveChild, ReplaceChild and ReplaceAt
// return a new root; every subtree off the edited path is shared by pointer
// with the previous version, so unchanged subtrees compare equal by identity.
//
// # Registry Lifecycle
//
// Register all descriptors at startup. The first Lookup freezes the registry;
// afterwards lookups take no lock and Register fails. Use
// WithConcurrentRegistration when registration must stay open, at the cost of
// a read lock on every lookup.
package core
