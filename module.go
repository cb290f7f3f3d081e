package lattice

import "context"

// Module groups registrations so they can be applied to a Builder together.
type Module interface {
	Register(b *Builder)
}

type ModuleFunc func(b *Builder)

func (f ModuleFunc) Register(b *Builder) {
	f(b)
}

// ModuleBundle is a named Module assembled from registration functions and
// other modules. Included modules are applied first, in inclusion order.
type ModuleBundle struct {
	name          string
	registrations []func(b *Builder)
	submodules    []Module
}

func NewModule(name string) *ModuleBundle {
	return &ModuleBundle{
		name: name,
	}
}

func (m *ModuleBundle) Name() string {
	return m.name
}

// Add appends a registration function to the bundle.
func (m *ModuleBundle) Add(fn func(b *Builder)) *ModuleBundle {
	m.registrations = append(m.registrations, fn)
	return m
}

func (m *ModuleBundle) Include(submodule Module) *ModuleBundle {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *ModuleBundle) Register(b *Builder) {
	for _, sub := range m.submodules {
		b.RegisterModule(sub)
	}
	for _, fn := range m.registrations {
		fn(b)
	}
}

func ModuleRegister[C, I any](m *ModuleBundle, configure ...func(f *FluentRegistration)) *ModuleBundle {
	return m.Add(
		func(b *Builder) {
			f := Register[C, I](b)
			for _, fn := range configure {
				fn(f)
			}
		},
	)
}

func ModuleRegisterFactory[C any](
	m *ModuleBundle,
	factory func(ctx context.Context, r Resolver) (C, error),
	configure ...func(f *FluentRegistration),
) *ModuleBundle {
	return m.Add(
		func(b *Builder) {
			f := RegisterFactory(b, factory)
			for _, fn := range configure {
				fn(f)
			}
		},
	)
}

func ModuleRegisterInstance[C any](m *ModuleBundle, value C, configure ...func(f *FluentRegistration)) *ModuleBundle {
	return m.Add(
		func(b *Builder) {
			f := RegisterInstance(b, value)
			for _, fn := range configure {
				fn(f)
			}
		},
	)
}

// ModuleDeclareConstructors adds constructors to the builder's catalog when
// the bundle is registered.
func ModuleDeclareConstructors(m *ModuleBundle, fns ...any) *ModuleBundle {
	return m.Add(
		func(b *Builder) {
			b.DeclareConstructors(fns...)
		},
	)
}
