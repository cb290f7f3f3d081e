package lattice

import (
	"context"
	"errors"
	"io"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/danpasecinic/lattice/internal/container"
	"github.com/danpasecinic/lattice/internal/graph"
	lreflect "github.com/danpasecinic/lattice/internal/reflect"
)

// entry is the frozen form of a Registration inside a built container.
type entry struct {
	id        string
	key       Key
	activator Activator
	strategy  ReuseStrategy
	arguments []any
}

// Container resolves services from the registrations accepted by
// Builder.Build. Its lookup table never changes after build, so resolution
// takes no container-wide lock; only reuse strategies synchronise.
type Container struct {
	config  *containerConfig
	logger  *zap.Logger
	index   *container.Index[*entry]
	entries []*entry

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func newContainer(cfg *containerConfig, st *buildState) *Container {
	return &Container{
		config:  cfg,
		logger:  cfg.logger.Named("container"),
		index:   st.index,
		entries: st.accepted,
	}
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Resolve returns an instance for contract, optionally selected by name.
// Dependencies are resolved recursively with the same ctx, which also
// carries the ambient Scope and the in-progress resolution chain.
//
// The chain records registrations, not contracts. A named registration may
// therefore resolve the unnamed registration of its own contract, as a
// decorator does, without being reported as circular. Re-entering the same
// registration is reported as ErrCircularDependency, including when two
// goroutines end up waiting on each other's singleton construction.
//
// Resolve fails with ErrInvalidOperation once the container is closed.
func (c *Container) Resolve(ctx context.Context, contract reflect.Type, name string) (any, error) {
	start := time.Now()
	instance, err := c.resolve(ctx, contract, name)
	c.callResolveHooks(requestKey(contract, name), time.Since(start), err)
	return instance, err
}

func (c *Container) resolve(ctx context.Context, contract reflect.Type, name string) (any, error) {
	if c.closed.Load() {
		return nil, errInvalidOperation("resolve called on a closed container")
	}

	e, err := c.lookup(contract, name)
	if err != nil {
		return nil, err
	}
	return c.activate(ctx, e)
}

func (c *Container) lookup(contract reflect.Type, name string) (*entry, error) {
	e, err := c.index.Lookup(contract, name)
	switch {
	case errors.Is(err, container.ErrNotFound):
		return nil, errRegistrationNotFound(typeName(contract), name)
	case errors.Is(err, container.ErrAmbiguous):
		return nil, errAmbiguousRegistration(typeName(contract))
	case err != nil:
		return nil, err
	}
	return e, nil
}

func (c *Container) activate(ctx context.Context, e *entry) (any, error) {
	ctx, cycle, ok := container.Enter(ctx, e.id)
	if !ok {
		return nil, errCircularDependency(cycle)
	}

	instance, err := e.strategy.HandleReuse(
		ctx, func() (any, error) {
			c.logger.Debug("activating", zap.String("registration", e.id))
			return e.activator.Activate(ctx, c, e.arguments)
		},
	)

	var waitCycle *container.CycleError
	if errors.As(err, &waitCycle) {
		return nil, errCircularDependency(waitCycle.Path)
	}
	return instance, err
}

// ResolveAll resolves every registration of contract in registration order.
func (c *Container) ResolveAll(ctx context.Context, contract reflect.Type) ([]any, error) {
	start := time.Now()
	entries := c.index.All(contract)
	instances := make([]any, 0, len(entries))

	var err error
	if c.closed.Load() {
		err = errInvalidOperation("resolve called on a closed container")
		entries = nil
	}
	for _, e := range entries {
		var instance any
		instance, err = c.activate(ctx, e)
		if err != nil {
			break
		}
		instances = append(instances, instance)
	}

	c.callResolveHooks(requestKey(contract, "*"), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (c *Container) Has(contract reflect.Type, name string) bool {
	_, err := c.index.Lookup(contract, name)
	return err == nil
}

func (c *Container) Size() int {
	return c.index.Size()
}

// Keys returns the keys of every registration, sorted by their string form.
func (c *Container) Keys() []Key {
	keys := make([]Key, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.key
	}
	slices.SortStableFunc(
		keys, func(a, b Key) int {
			switch as, bs := a.String(), b.String(); {
			case as < bs:
				return -1
			case as > bs:
				return 1
			}
			return 0
		},
	)
	return keys
}

// Validate checks, without activating anything, that every constructor
// registration has a usable constructor and that no constructor dependencies
// form a cycle. Factory registrations resolve their dependencies at run time
// and are not inspected.
func (c *Container) Validate() error {
	g, errs := c.dependencyGraph()
	for _, path := range g.CyclePaths() {
		errs = append(errs, errCircularDependency(path))
	}
	return errors.Join(errs...)
}

func (c *Container) dependencyGraph() (*graph.Graph, []error) {
	g := graph.New()
	var errs []error

	for _, e := range c.entries {
		deps, err := c.staticDependencies(e)
		if err != nil {
			errs = append(errs, err)
		}
		g.AddNode(e.id, deps)
	}
	return g, errs
}

func (c *Container) staticDependencies(e *entry) ([]string, error) {
	a, ok := e.activator.(*constructorActivator)
	if !ok {
		return nil, nil
	}

	ctor, explicit, err := a.selectConstructor(c, e.arguments)
	if err != nil {
		return nil, err
	}

	var deps []string
	for _, p := range ctor.params[len(explicit):] {
		if lreflect.IsContext(p) || p == resolverType {
			continue
		}
		dep, err := c.lookup(p, "")
		if err != nil {
			return deps, err
		}
		deps = append(deps, dep.id)
	}
	return deps, nil
}

// Close releases container-owned instances: strategies implementing
// io.Closer are closed in reverse registration order. Scopes opened by
// callers are closed by their owners. Later resolutions fail with
// ErrInvalidOperation.
func (c *Container) Close() error {
	c.closed.Store(true)
	c.closeOnce.Do(
		func() {
			var errs []error
			for _, e := range slices.Backward(c.entries) {
				closer, ok := e.strategy.(io.Closer)
				if !ok {
					continue
				}
				if err := closer.Close(); err != nil {
					errs = append(errs, err)
				}
			}
			c.closeErr = errors.Join(errs...)
			c.logger.Debug("container closed", zap.Error(c.closeErr))
		},
	)
	return c.closeErr
}

func requestKey(contract reflect.Type, name string) string {
	key := typeName(contract)
	if name != "" {
		key += "#" + name
	}
	return key
}
