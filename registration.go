package lattice

import (
	"context"
	"reflect"

	lreflect "github.com/danpasecinic/lattice/internal/reflect"
	"github.com/danpasecinic/lattice/internal/scope"
)

type activation uint8

const (
	activateConstructor activation = iota
	activateFactory
)

// Registration is the builder-side description of one service: the contract
// it satisfies, how to build it and how to reuse it. It stays mutable through
// its FluentRegistration until the owning builder is built.
type Registration struct {
	contract       reflect.Type
	implementation reflect.Type
	name           string

	kind       activation
	factory    func(ctx context.Context, r Resolver) (any, error)
	reuse      ReuseFactory
	lifetime   scope.Kind
	arguments  []any
	useDefault bool

	frozen bool
}

func (r *Registration) Key() Key {
	return Key{
		Contract:       r.contract,
		Implementation: r.implementation,
		Name:           r.name,
	}
}

// Arguments returns a copy of the explicit constructor arguments.
func (r *Registration) Arguments() []any {
	if len(r.arguments) == 0 {
		return nil
	}
	args := make([]any, len(r.arguments))
	copy(args, r.arguments)
	return args
}

// Lifetime describes the configured reuse strategy. Registrations without an
// explicit strategy report "default" until the container is built.
func (r *Registration) Lifetime() string {
	if r.reuse == nil {
		return "default"
	}
	return r.lifetime.String()
}

func (r *Registration) validate() error {
	service := typeName(r.contract)

	switch {
	case r.contract == nil:
		return errInvalidRegistration("<nil>", "contract type cannot be nil")
	case r.kind == activateFactory && r.factory == nil:
		return errInvalidRegistration(service, "factory cannot be nil")
	case r.kind == activateFactory:
		return nil
	case r.implementation == nil:
		return errInvalidRegistration(service, "implementation type cannot be nil")
	case !lreflect.Concrete(r.implementation):
		return errInvalidRegistration(
			service,
			"implementation "+typeName(r.implementation)+" must be a concrete type",
		)
	case !r.implementation.AssignableTo(r.contract):
		return errInvalidRegistration(
			service,
			"implementation "+typeName(r.implementation)+" does not satisfy "+service,
		)
	}
	return nil
}

// FluentRegistration configures a Registration in place. Every method
// returns the same handle so calls chain:
//
//	b.Register(lattice.TypeOf[Shape](), lattice.TypeOf[*Circle]()).
//		WithName("circle").
//		WithArguments(2.0).
//		ScopedToSingleton()
//
// Calling a method after the builder has been built panics with an
// InvalidOperation error.
type FluentRegistration struct {
	registration *Registration
}

func (f *FluentRegistration) mutate(op string, fn func(r *Registration)) *FluentRegistration {
	if f.registration.frozen {
		panic(errInvalidOperation(op + " called after the container was built").WithService(typeName(f.registration.contract)))
	}
	fn(f.registration)
	return f
}

func (f *FluentRegistration) ScopedToTransient() *FluentRegistration {
	return f.ScopedTo(Transient)
}

func (f *FluentRegistration) ScopedToSingleton() *FluentRegistration {
	return f.ScopedTo(Singleton)
}

func (f *FluentRegistration) ScopedToScope() *FluentRegistration {
	return f.ScopedTo(PerScope)
}

// ScopedTo sets the reuse strategy factory. The factory is invoked once at
// build time; the strategy it returns belongs to this registration alone.
func (f *FluentRegistration) ScopedTo(factory ReuseFactory) *FluentRegistration {
	return f.mutate(
		"ScopedTo", func(r *Registration) {
			r.reuse = factory
			r.lifetime = factoryKind(factory)
		},
	)
}

// WithArguments replaces the explicit constructor arguments. They fill the
// leading constructor parameters in order.
func (f *FluentRegistration) WithArguments(args ...any) *FluentRegistration {
	return f.mutate(
		"WithArguments", func(r *Registration) {
			r.arguments = append([]any(nil), args...)
		},
	)
}

func (f *FluentRegistration) UseDefaultConstructor() *FluentRegistration {
	return f.mutate(
		"UseDefaultConstructor", func(r *Registration) {
			r.useDefault = true
		},
	)
}

func (f *FluentRegistration) WithName(name string) *FluentRegistration {
	return f.mutate(
		"WithName", func(r *Registration) {
			r.name = name
		},
	)
}

func (f *FluentRegistration) Key() Key {
	return f.registration.Key()
}

func (f *FluentRegistration) Registration() *Registration {
	return f.registration
}
