package lattice

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/danpasecinic/lattice/internal/container"
	lreflect "github.com/danpasecinic/lattice/internal/reflect"
	"github.com/danpasecinic/lattice/internal/scope"
)

// Builder collects registrations and turns them into an immutable Container.
// Registrations are only validated by Build, so they may be reconfigured
// through their FluentRegistration handles in any order until then. A Builder
// is not safe for concurrent use.
type Builder struct {
	config *containerConfig
	logger *zap.Logger

	registrations []*Registration
	commits       []func(st *buildState) error

	constructors map[reflect.Type][]*constructor
	declErrs     []error

	defaultReuse ReuseFactory
	built        bool
}

type buildState struct {
	accepted []*entry
	index    *container.Index[*entry]
}

func NewBuilder(opts ...Option) *Builder {
	cfg := newConfig(opts...)
	return &Builder{
		config:       cfg,
		logger:       cfg.logger.Named("builder"),
		constructors: make(map[reflect.Type][]*constructor),
	}
}

func (b *Builder) ensureOpen(op string) {
	if b.built {
		panic(errInvalidOperation(op + " called after the container was built"))
	}
}

// Register queues a constructor registration of implementation under
// contract. Problems with the pair are reported by Build.
func (b *Builder) Register(contract, implementation reflect.Type) *FluentRegistration {
	b.ensureOpen("Register")
	return b.add(
		&Registration{
			contract:       contract,
			implementation: implementation,
			kind:           activateConstructor,
		},
	)
}

func (b *Builder) add(r *Registration) *FluentRegistration {
	b.registrations = append(b.registrations, r)
	b.commits = append(
		b.commits, func(st *buildState) error {
			return b.commit(st, r)
		},
	)
	return &FluentRegistration{registration: r}
}

// DeclareConstructors adds constructor functions to the catalog. Each
// function must have the form func(P1, ..., Pn) T or func(P1, ..., Pn) (T,
// error) and becomes a candidate for every registration implemented by T.
// Declaration order breaks ties between equally wide constructors.
func (b *Builder) DeclareConstructors(fns ...any) *Builder {
	b.ensureOpen("DeclareConstructors")
	for _, fn := range fns {
		ctor, impl, err := parseConstructor(fn)
		if err != nil {
			b.declErrs = append(b.declErrs, errInvalidRegistration(fmt.Sprintf("%T", fn), err.Error()))
			continue
		}
		b.constructors[impl] = append(b.constructors[impl], ctor)
	}
	return b
}

// DefaultScopedTo sets the strategy for registrations that never chose one.
// It is read at Build, so it also applies to registrations added earlier.
func (b *Builder) DefaultScopedTo(factory ReuseFactory) *Builder {
	b.ensureOpen("DefaultScopedTo")
	b.defaultReuse = factory
	return b
}

func (b *Builder) DefaultScopedToTransient() *Builder {
	return b.DefaultScopedTo(Transient)
}

func (b *Builder) DefaultScopedToSingleton() *Builder {
	return b.DefaultScopedTo(Singleton)
}

func (b *Builder) DefaultScopedToScope() *Builder {
	return b.DefaultScopedTo(PerScope)
}

func (b *Builder) RegisterModule(modules ...Module) *Builder {
	b.ensureOpen("RegisterModule")
	for _, m := range modules {
		if named, ok := m.(interface{ Name() string }); ok {
			b.logger.Debug("registering module", zap.String("module", named.Name()))
		}
		m.Register(b)
	}
	return b
}

// Registrations returns the queued registrations in registration order.
func (b *Builder) Registrations() []*Registration {
	result := make([]*Registration, len(b.registrations))
	copy(result, b.registrations)
	return result
}

// Build validates every registration in registration order and returns the
// container. The first failure aborts the build; the builder stays open so
// the offending registrations can be fixed and Build called again.
func (b *Builder) Build() (*Container, error) {
	if b.built {
		return nil, errInvalidOperation("container already built")
	}

	if len(b.declErrs) > 0 {
		b.logger.Error("build failed", zap.Error(b.declErrs[0]))
		return nil, b.declErrs[0]
	}

	st := &buildState{index: container.NewIndex[*entry]()}
	for _, commit := range b.commits {
		if err := commit(st); err != nil {
			b.logger.Error("build failed", zap.Error(err))
			return nil, err
		}
	}

	b.built = true
	for _, r := range b.registrations {
		r.frozen = true
	}

	b.logger.Info("container built", zap.Int("registrations", len(st.accepted)))
	return newContainer(b.config, st), nil
}

func (b *Builder) commit(st *buildState, r *Registration) error {
	if err := r.validate(); err != nil {
		return err
	}

	key := r.Key()
	for _, other := range st.accepted {
		if other.key.Conflicts(key) {
			return errRegistrationAlreadyExists(key)
		}
	}

	factory := r.reuse
	if factory == nil {
		factory = b.defaultReuse
	}
	if factory == nil {
		factory = Transient
	}
	strategy := factory()
	if strategy == nil {
		return errInvalidRegistration(typeName(r.contract), "reuse factory returned a nil strategy")
	}

	activator, err := b.activatorFor(r)
	if err != nil {
		return err
	}

	e := &entry{
		id:        key.String(),
		key:       key,
		activator: activator,
		strategy:  strategy,
		arguments: r.Arguments(),
	}
	st.accepted = append(st.accepted, e)
	st.index.Add(key.Contract, key.Name, e)

	b.logger.Debug(
		"registration accepted",
		zap.Stringer("key", key),
		zap.Stringer("lifetime", lifetimeOf(strategy)),
	)
	return nil
}

func (b *Builder) activatorFor(r *Registration) (Activator, error) {
	service := typeName(r.contract)

	if r.kind == activateFactory {
		if len(r.arguments) > 0 || r.useDefault {
			b.logger.Warn(
				"factory registration ignores constructor settings",
				zap.String("contract", service),
				zap.Int("arguments", len(r.arguments)),
				zap.Bool("useDefaultConstructor", r.useDefault),
			)
		}
		return &factoryActivator{service: service, fn: r.factory}, nil
	}

	if r.useDefault && len(r.arguments) > 0 {
		b.logger.Warn(
			"default constructor forced, explicit arguments ignored",
			zap.String("contract", service),
			zap.Int("arguments", len(r.arguments)),
		)
	}

	a := newConstructorActivator(r.implementation, b.constructors[r.implementation], r.useDefault)
	if len(a.constructors) == 0 {
		return nil, errInvalidRegistration(
			service,
			"no constructor declared for "+typeName(r.implementation),
		)
	}
	return a, nil
}

// Register is the generic form of Builder.Register.
func Register[C, I any](b *Builder) *FluentRegistration {
	return b.Register(TypeOf[C](), TypeOf[I]())
}

// RegisterFactory registers a function that builds C itself, resolving its
// own dependencies through r.
func RegisterFactory[C any](b *Builder, factory func(ctx context.Context, r Resolver) (C, error)) *FluentRegistration {
	b.ensureOpen("RegisterFactory")

	var fn func(ctx context.Context, r Resolver) (any, error)
	if factory != nil {
		fn = func(ctx context.Context, r Resolver) (any, error) {
			return factory(ctx, r)
		}
	}

	return b.add(
		&Registration{
			contract: TypeOf[C](),
			kind:     activateFactory,
			factory:  fn,
		},
	)
}

// RegisterInstance registers a pre-built value. It is reused for the life of
// the container.
func RegisterInstance[C any](b *Builder, value C) *FluentRegistration {
	b.ensureOpen("RegisterInstance")

	r := &Registration{
		contract: TypeOf[C](),
		kind:     activateFactory,
		reuse:    Singleton,
		lifetime: scope.Singleton,
	}
	if !lreflect.IsNil(value) {
		r.implementation = reflect.TypeOf(value)
		r.factory = func(context.Context, Resolver) (any, error) {
			return value, nil
		}
	}
	return b.add(r)
}
