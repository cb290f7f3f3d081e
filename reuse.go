package lattice

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/danpasecinic/lattice/internal/container"
	"github.com/danpasecinic/lattice/internal/scope"
)

// ReuseStrategy decides whether a resolution gets a cached instance or a new
// one. HandleReuse must be safe for concurrent use; create performs the
// actual activation and may be called zero or more times.
type ReuseStrategy interface {
	HandleReuse(ctx context.Context, create func() (any, error)) (any, error)
}

// ReuseFactory produces a fresh strategy. Every registration receives its own
// strategy instance when the container is built.
type ReuseFactory func() ReuseStrategy

// StrategyOf returns a factory that constructs S with no arguments.
//
//	b.Register(contract, impl).ScopedTo(lattice.StrategyOf[UnitOfWorkStrategy]())
func StrategyOf[S any, PS interface {
	*S
	ReuseStrategy
}]() ReuseFactory {
	return func() ReuseStrategy {
		return PS(new(S))
	}
}

type transientStrategy struct{}

// Transient creates a new instance on every resolution.
func Transient() ReuseStrategy {
	return transientStrategy{}
}

func (transientStrategy) HandleReuse(_ context.Context, create func() (any, error)) (any, error) {
	return create()
}

type singletonStrategy struct {
	cache *container.Cache
}

// Singleton creates the instance once and returns it for the lifetime of the
// container, whoever asks and from whichever scope.
func Singleton() ReuseStrategy {
	return &singletonStrategy{cache: container.NewCache()}
}

func (s *singletonStrategy) HandleReuse(ctx context.Context, create func() (any, error)) (any, error) {
	return s.cache.GetOrCreate(ctx, "", create)
}

func (s *singletonStrategy) Close() error {
	return s.cache.Close()
}

type scopedStrategy struct {
	id       string
	fallback *Scope
}

// PerScope creates one instance per ambient Scope found in the resolution
// context. Resolutions without a scope share a private scope owned by the
// strategy, so they behave like a singleton of this registration.
func PerScope() ReuseStrategy {
	return &scopedStrategy{
		id:       uuid.NewString(),
		fallback: NewScope(),
	}
}

func (s *scopedStrategy) HandleReuse(ctx context.Context, create func() (any, error)) (any, error) {
	sc, ok := ScopeFrom(ctx)
	if !ok {
		sc = s.fallback
	}
	return sc.cache.GetOrCreate(ctx, s.id, create)
}

func (s *scopedStrategy) Close() error {
	return s.fallback.Close()
}

func lifetimeOf(strategy ReuseStrategy) scope.Kind {
	switch strategy.(type) {
	case transientStrategy:
		return scope.Transient
	case *singletonStrategy:
		return scope.Singleton
	case *scopedStrategy:
		return scope.Scoped
	default:
		return scope.Custom
	}
}

// factoryKind classifies a factory without invoking it. Only the built-in
// factories are recognised; anything else, including wrappers around them,
// is Custom.
func factoryKind(factory ReuseFactory) scope.Kind {
	if factory == nil {
		return scope.Custom
	}

	switch reflect.ValueOf(factory).Pointer() {
	case reflect.ValueOf(ReuseFactory(Transient)).Pointer():
		return scope.Transient
	case reflect.ValueOf(ReuseFactory(Singleton)).Pointer():
		return scope.Singleton
	case reflect.ValueOf(ReuseFactory(PerScope)).Pointer():
		return scope.Scoped
	default:
		return scope.Custom
	}
}

// LifecycleFactory maps a lifecycle name ("transient", "singleton",
// "scoped") to the matching built-in strategy factory.
func LifecycleFactory(name string) (ReuseFactory, error) {
	kind, err := scope.Parse(name)
	if err != nil {
		return nil, err
	}

	switch kind {
	case scope.Singleton:
		return Singleton, nil
	case scope.Scoped:
		return PerScope, nil
	default:
		return Transient, nil
	}
}
