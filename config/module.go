package config

import (
	"fmt"
	"reflect"

	"github.com/danpasecinic/lattice"
)

type resolvedRegistration struct {
	contract       reflect.Type
	implementation reflect.Type
	name           string
	reuse          lattice.ReuseFactory
	arguments      []any
}

// NewModule resolves every type name and lifecycle in cfg against catalog and
// returns a module that registers the tuples through the ordinary Builder
// API. Unknown names fail here, before any builder is touched.
func NewModule(cfg *Configuration, catalog *Catalog) (lattice.Module, error) {
	var defaultReuse lattice.ReuseFactory
	if cfg.DefaultLifecycle != "" {
		factory, err := lattice.LifecycleFactory(cfg.DefaultLifecycle)
		if err != nil {
			return nil, fmt.Errorf("default lifecycle: %w", err)
		}
		defaultReuse = factory
	}

	aliases := cfg.aliases()
	resolve := func(name string) (reflect.Type, error) {
		if target, ok := aliases[name]; ok {
			name = target
		}
		t, ok := catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown type %q", name)
		}
		return t, nil
	}

	resolved := make([]resolvedRegistration, 0, len(cfg.Registrations))
	for i, r := range cfg.Registrations {
		contract, err := resolve(r.Contract)
		if err != nil {
			return nil, fmt.Errorf("registration %d: contract: %w", i, err)
		}

		implementation := contract
		if r.Implementation != "" {
			implementation, err = resolve(r.Implementation)
			if err != nil {
				return nil, fmt.Errorf("registration %d: implementation: %w", i, err)
			}
		}

		var reuse lattice.ReuseFactory
		if r.Lifecycle != "" {
			reuse, err = lattice.LifecycleFactory(r.Lifecycle)
			if err != nil {
				return nil, fmt.Errorf("registration %d: %w", i, err)
			}
		}

		resolved = append(
			resolved, resolvedRegistration{
				contract:       contract,
				implementation: implementation,
				name:           r.Name,
				reuse:          reuse,
				arguments:      r.Arguments,
			},
		)
	}

	return lattice.ModuleFunc(
		func(b *lattice.Builder) {
			if defaultReuse != nil {
				b.DefaultScopedTo(defaultReuse)
			}
			for _, r := range resolved {
				f := b.Register(r.contract, r.implementation)
				if r.name != "" {
					f.WithName(r.name)
				}
				if len(r.arguments) > 0 {
					f.WithArguments(r.arguments...)
				}
				if r.reuse != nil {
					f.ScopedTo(r.reuse)
				}
			}
		},
	), nil
}
