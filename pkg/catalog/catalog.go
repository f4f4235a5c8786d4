// Package catalog assembles the built-in kinds into a ready-to-use registry.
package catalog

import (
	"slices"

	"github.com/go-drift/shadowtree/pkg/config"
	"github.com/go-drift/shadowtree/pkg/core"
	"github.com/go-drift/shadowtree/pkg/errors"
	"github.com/go-drift/shadowtree/pkg/svg"
	"github.com/go-drift/shadowtree/pkg/text"
)

// Descriptors returns every built-in descriptor: the svg kinds followed by
// the text kinds.
func Descriptors() []core.Descriptor {
	return slices.Concat(svg.Descriptors(), text.Descriptors())
}

// Options configure [NewRegistry].
type Options struct {
	// Disabled built-in kinds are left unregistered. Extra may register a
	// replacement under the same name.
	Disabled []core.KindName
	// Concurrent keeps registration open; see core.WithConcurrentRegistration.
	Concurrent bool
	// Extra descriptors are registered after the built-in ones.
	Extra []core.Descriptor
	// RegistryOptions are passed to core.NewRegistry.
	RegistryOptions []core.RegistryOption
}

// NewRegistry registers the built-in kinds and any extras. Unless
// Concurrent is set the returned registry is frozen.
func NewRegistry(opts Options) (*core.Registry, error) {
	const op = "catalog.NewRegistry"

	builtin := Descriptors()
	for _, k := range opts.Disabled {
		known := slices.ContainsFunc(builtin, func(d core.Descriptor) bool { return d.Kind() == k })
		if !known {
			return nil, errors.Configuration(op, string(k), "cannot disable unknown kind %q", k)
		}
	}

	ropts := slices.Clone(opts.RegistryOptions)
	if opts.Concurrent {
		ropts = append(ropts, core.WithConcurrentRegistration())
	}
	builtin = slices.DeleteFunc(builtin, func(d core.Descriptor) bool {
		return slices.Contains(opts.Disabled, d.Kind())
	})
	r := core.NewRegistry(ropts...)
	for _, d := range slices.Concat(builtin, opts.Extra) {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	if !opts.Concurrent {
		r.Freeze()
	}
	return r, nil
}

// FromConfig builds the registry described by cfg.
func FromConfig(cfg *config.Resolved, ropts ...core.RegistryOption) (*core.Registry, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	return NewRegistry(Options{
		Disabled:        cfg.Disabled,
		Concurrent:      cfg.Concurrent,
		RegistryOptions: ropts,
	})
}
