package lattice_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/danpasecinic/lattice"
)

func TestBuildAndResolve(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b)
	lattice.Register[Shape, *Square](b).WithName("square")

	c, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()

	shape, err := lattice.Resolve[Shape](ctx, c)
	require.NoError(t, err)
	assert.IsType(t, &Circle{}, shape)

	square, err := lattice.ResolveNamed[Shape](ctx, c, "square")
	require.NoError(t, err)
	assert.IsType(t, &Square{}, square)
}

func TestBuild_DuplicateTriple(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b)
	lattice.Register[Shape, *Circle](b)

	c, err := b.Build()
	assert.Nil(t, c)
	assert.True(t, lattice.IsRegistrationAlreadyExists(err))
}

func TestBuild_NameIsUniqueAcrossTypes(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b).WithName("main")
	lattice.Register[*Logger, *Logger](b).WithName("main")

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, lattice.ErrRegistrationAlreadyExists)

	var le *lattice.Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "main", le.Name)
}

func TestBuild_WithNameAfterRegisterIsValidatedAtBuild(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b).WithName("a")
	second := lattice.Register[Shape, *Square](b).WithName("b")

	second.WithName("a")

	_, err := b.Build()
	assert.True(t, lattice.IsRegistrationAlreadyExists(err))
}

func TestBuild_RenameResolvesConflict(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b)
	dup := lattice.Register[Shape, *Circle](b)

	dup.WithName("other")

	c, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, c.Size())
}

func TestBuild_RetryAfterFailure(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b).WithName("x")
	dup := lattice.Register[Shape, *Square](b).WithName("x")

	_, err := b.Build()
	require.True(t, lattice.IsRegistrationAlreadyExists(err))

	dup.WithName("y")

	c, err := b.Build()
	require.NoError(t, err)
	assert.True(t, c.Has(lattice.TypeOf[Shape](), "y"))
}

func TestBuild_Twice(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b)

	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	assert.True(t, lattice.IsInvalidOperation(err))
}

func TestFluentAfterBuildPanics(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	f := lattice.Register[Shape, *Circle](b)

	_, err := b.Build()
	require.NoError(t, err)

	tests := map[string]func(){
		"WithName":              func() { f.WithName("late") },
		"WithArguments":         func() { f.WithArguments(1.0) },
		"ScopedToSingleton":     func() { f.ScopedToSingleton() },
		"UseDefaultConstructor": func() { f.UseDefaultConstructor() },
		"Register":              func() { lattice.Register[*Logger, *Logger](b) },
		"DefaultScopedTo":       func() { b.DefaultScopedToSingleton() },
	}

	for name, fn := range tests {
		t.Run(
			name, func(t *testing.T) {
				err := recoverError(fn)
				require.Error(t, err)
				assert.True(t, lattice.IsInvalidOperation(err))
			},
		)
	}

	assert.Empty(t, f.Key().Name)
}

func TestFluentReturnsSameHandle(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	f := lattice.Register[Shape, *Circle](b)

	assert.Same(t, f, f.WithName("c").ScopedToSingleton().WithArguments(2.0))
	assert.Equal(
		t, lattice.Key{
			Contract:       lattice.TypeOf[Shape](),
			Implementation: lattice.TypeOf[*Circle](),
			Name:           "c",
		}, f.Key(),
	)
	assert.Equal(t, []any{2.0}, f.Registration().Arguments())
	assert.Equal(t, "singleton", f.Registration().Lifetime())
}

func TestBuild_InvalidRegistrations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		register func(b *lattice.Builder)
	}{
		{
			name: "nil contract",
			register: func(b *lattice.Builder) {
				b.Register(nil, lattice.TypeOf[*Circle]())
			},
		},
		{
			name: "interface implementation",
			register: func(b *lattice.Builder) {
				lattice.Register[Shape, Shape](b)
			},
		},
		{
			name: "implementation does not satisfy contract",
			register: func(b *lattice.Builder) {
				b.Register(lattice.TypeOf[Shape](), lattice.TypeOf[*Logger]())
			},
		},
		{
			name: "no constructor",
			register: func(b *lattice.Builder) {
				lattice.Register[Registry, Registry](b)
			},
		},
		{
			name: "nil factory",
			register: func(b *lattice.Builder) {
				lattice.RegisterFactory[*Logger](b, nil)
			},
		},
		{
			name: "bad constructor",
			register: func(b *lattice.Builder) {
				b.DeclareConstructors(func(...int) *Logger { return nil })
			},
		},
		{
			name: "constructor with non-error second result",
			register: func(b *lattice.Builder) {
				b.DeclareConstructors(func() (*Logger, int) { return nil, 0 })
			},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()

				b := lattice.NewBuilder()
				tt.register(b)

				c, err := b.Build()
				assert.Nil(t, c)
				assert.True(t, lattice.IsInvalidRegistration(err), "got %v", err)
			},
		)
	}
}

func TestReuse_SingletonAndTransient(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[*Circle, *Circle](b).ScopedToSingleton()
	lattice.Register[*Square, *Square](b).ScopedToTransient()

	c, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()

	assert.Same(t, lattice.MustResolve[*Circle](ctx, c), lattice.MustResolve[*Circle](ctx, c))
	assert.NotSame(t, lattice.MustResolve[*Square](ctx, c), lattice.MustResolve[*Square](ctx, c))
}

func TestReuse_DefaultScopeDeclaredAfterRegistration(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[*Circle, *Circle](b)
	lattice.Register[*Square, *Square](b).ScopedToTransient()
	b.DefaultScopedToSingleton()

	c, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()

	assert.Same(t, lattice.MustResolve[*Circle](ctx, c), lattice.MustResolve[*Circle](ctx, c))
	assert.NotSame(t, lattice.MustResolve[*Square](ctx, c), lattice.MustResolve[*Square](ctx, c))
}

func TestReuse_EachRegistrationOwnsItsStrategy(t *testing.T) {
	t.Parallel()

	var created atomic.Int32
	factory := func() lattice.ReuseStrategy {
		created.Add(1)
		return lattice.Singleton()
	}

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b).WithName("one").ScopedTo(factory)
	lattice.Register[Shape, *Circle](b).WithName("two").ScopedTo(factory)

	c, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, int32(2), created.Load())

	ctx := context.Background()
	one := lattice.MustResolveNamed[Shape](ctx, c, "one")
	two := lattice.MustResolveNamed[Shape](ctx, c, "two")
	assert.NotSame(t, one, two)
}

func TestReuse_ConcurrentSingletonConstructsOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	b := lattice.NewBuilder()
	lattice.RegisterFactory(
		b, func(ctx context.Context, r lattice.Resolver) (*Logger, error) {
			calls.Add(1)
			time.Sleep(10 * time.Millisecond)
			return &Logger{Prefix: "app"}, nil
		},
	).ScopedToSingleton()

	c, err := b.Build()
	require.NoError(t, err)

	results := make([]*Logger, 64)
	var g errgroup.Group
	for i := range results {
		g.Go(
			func() error {
				l, err := lattice.Resolve[*Logger](context.Background(), c)
				results[i] = l
				return err
			},
		)
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), calls.Load())
	for _, l := range results {
		assert.Same(t, results[0], l)
	}
}

func TestReuse_FailedSingletonIsNotCached(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	b := lattice.NewBuilder()
	lattice.RegisterFactory(
		b, func(ctx context.Context, r lattice.Resolver) (*Logger, error) {
			if calls.Add(1) == 1 {
				return nil, errBroken
			}
			return &Logger{}, nil
		},
	).ScopedToSingleton()

	c, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()

	_, err = lattice.Resolve[*Logger](ctx, c)
	require.ErrorIs(t, err, errBroken)

	l, err := lattice.Resolve[*Logger](ctx, c)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestResolve_AmbiguousAndNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b)
	lattice.Register[Shape, *Square](b)
	c, err := b.Build()
	require.NoError(t, err)

	_, err = lattice.Resolve[Shape](ctx, c)
	assert.True(t, lattice.IsAmbiguous(err))

	b = lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b).WithName("circle")
	lattice.Register[Shape, *Square](b).WithName("square")
	c, err = b.Build()
	require.NoError(t, err)

	_, err = lattice.Resolve[Shape](ctx, c)
	assert.True(t, lattice.IsAmbiguous(err))

	_, err = lattice.ResolveNamed[Shape](ctx, c, "triangle")
	assert.True(t, lattice.IsNotFound(err))

	_, err = lattice.Resolve[*Logger](ctx, c)
	assert.True(t, lattice.IsNotFound(err))

	_, ok := lattice.TryResolve[*Logger](ctx, c)
	assert.False(t, ok)
}

func TestResolve_SingleNamedRegistration(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Square](b).WithName("square")

	c, err := b.Build()
	require.NoError(t, err)

	shape, err := lattice.Resolve[Shape](context.Background(), c)
	require.NoError(t, err)
	assert.IsType(t, &Square{}, shape)
}

func TestResolve_CircularDependency(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewServiceA, NewServiceB)
	lattice.Register[*ServiceA, *ServiceA](b)
	lattice.Register[*ServiceB, *ServiceB](b)

	c, err := b.Build()
	require.NoError(t, err)

	_, err = lattice.Resolve[*ServiceA](context.Background(), c)
	require.Error(t, err)
	assert.True(t, lattice.IsCircularDependency(err))

	le := findCode(err, lattice.ErrCodeCircularDependency)
	require.NotNil(t, le)
	require.Len(t, le.Stack, 3)
	assert.Equal(t, le.Stack[0], le.Stack[2])
}

func TestResolve_ConcurrentSingletonCycle(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.RegisterFactory(
		b, func(ctx context.Context, r lattice.Resolver) (*ServiceA, error) {
			time.Sleep(50 * time.Millisecond)
			dep, err := lattice.Resolve[*ServiceB](ctx, r)
			if err != nil {
				return nil, err
			}
			return &ServiceA{B: dep}, nil
		},
	).ScopedToSingleton()
	lattice.RegisterFactory(
		b, func(ctx context.Context, r lattice.Resolver) (*ServiceB, error) {
			time.Sleep(50 * time.Millisecond)
			dep, err := lattice.Resolve[*ServiceA](ctx, r)
			if err != nil {
				return nil, err
			}
			return &ServiceB{A: dep}, nil
		},
	).ScopedToSingleton()

	c, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()
	errs := make(chan error, 2)
	go func() {
		_, err := lattice.Resolve[*ServiceA](ctx, c)
		errs <- err
	}()
	go func() {
		_, err := lattice.Resolve[*ServiceB](ctx, c)
		errs <- err
	}()

	for range 2 {
		select {
		case err := <-errs:
			require.Error(t, err)
			assert.True(t, lattice.IsCircularDependency(err), err)
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent resolution of a singleton cycle did not return")
		}
	}

	_, err = lattice.Resolve[*ServiceA](ctx, c)
	assert.True(t, lattice.IsCircularDependency(err), "a failed cycle leaves nothing in flight")
}

func TestResolve_DiamondIsNotACycle(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewLeft, NewRight, NewTop)
	lattice.Register[*Bottom, *Bottom](b).ScopedToSingleton()
	lattice.Register[*Left, *Left](b)
	lattice.Register[*Right, *Right](b)
	lattice.Register[*Top, *Top](b)

	c, err := b.Build()
	require.NoError(t, err)

	var g errgroup.Group
	for range 16 {
		g.Go(
			func() error {
				top, err := lattice.Resolve[*Top](context.Background(), c)
				if err != nil {
					return err
				}
				if top.Left.Bottom != top.Right.Bottom {
					t.Error("singleton bottom should be shared")
				}
				return nil
			},
		)
	}
	require.NoError(t, g.Wait())
	require.NoError(t, c.Validate())
}

func TestActivation_ExplicitArguments(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewRectangle, NewLoggedRectangle)
	lattice.Register[*Logger, *Logger](b)
	lattice.Register[*Rectangle, *Rectangle](b).WithArguments(3, 4)

	c, err := b.Build()
	require.NoError(t, err)

	r, err := lattice.Resolve[*Rectangle](context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 3.0, r.Width)
	assert.Equal(t, 4.0, r.Height)
	assert.Nil(t, r.Logger, "exact-arity constructor wins over a wider one")
}

func TestActivation_WithArgumentsReplaces(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewRectangle)
	lattice.Register[*Rectangle, *Rectangle](b).WithArguments(1, 1, 1).WithArguments(2.0, 5.0)

	c, err := b.Build()
	require.NoError(t, err)

	r := lattice.MustResolve[*Rectangle](context.Background(), c)
	assert.Equal(t, 10.0, r.Area())
}

func TestActivation_ArgumentsFillLeadingParameters(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewLabel)
	lattice.RegisterInstance(b, &Logger{Prefix: "ui"})
	lattice.Register[*Label, *Label](b).WithArguments("hello")

	c, err := b.Build()
	require.NoError(t, err)

	l := lattice.MustResolve[*Label](context.Background(), c)
	assert.Equal(t, "hello", l.Text)
	require.NotNil(t, l.Logger)
	assert.Equal(t, "ui", l.Logger.Prefix)
}

func TestActivation_NoConstructorAcceptsArguments(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewCircleWithRadius)
	lattice.Register[*Circle, *Circle](b).WithArguments("wide", "tall")

	c, err := b.Build()
	require.NoError(t, err)

	_, err = lattice.Resolve[*Circle](context.Background(), c)
	assert.True(t, lattice.IsActivation(err))
}

func TestActivation_GreedyWidestResolvable(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewCircle, NewCircleWithRadius)
	lattice.Register[*Circle, *Circle](b)

	c, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1.0, lattice.MustResolve[*Circle](context.Background(), c).Radius)

	b = lattice.NewBuilder()
	b.DeclareConstructors(NewCircle, NewCircleWithRadius)
	lattice.RegisterInstance(b, 5.0)
	lattice.Register[*Circle, *Circle](b)

	c, err = b.Build()
	require.NoError(t, err)
	assert.Equal(t, 5.0, lattice.MustResolve[*Circle](context.Background(), c).Radius)
}

func TestActivation_UseDefaultConstructor(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewCircle, NewCircleWithRadius)
	lattice.RegisterInstance(b, 5.0)
	lattice.Register[*Circle, *Circle](b).UseDefaultConstructor()

	c, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1.0, lattice.MustResolve[*Circle](context.Background(), c).Radius)

	b = lattice.NewBuilder()
	b.DeclareConstructors(NewRegistry)
	lattice.Register[*Circle, *Circle](b)
	lattice.Register[Registry, Registry](b).UseDefaultConstructor()

	c, err = b.Build()
	require.NoError(t, err)

	_, err = lattice.Resolve[Registry](context.Background(), c)
	assert.True(t, lattice.IsActivation(err))
}

func TestActivation_TieBreakByDeclarationOrder(t *testing.T) {
	t.Parallel()

	small := func(l *Logger) *Square { return &Square{Side: 1} }
	large := func(c *Circle) *Square { return &Square{Side: 2} }

	for _, tt := range []struct {
		name  string
		ctors []any
		side  float64
	}{
		{name: "small first", ctors: []any{small, large}, side: 1},
		{name: "large first", ctors: []any{large, small}, side: 2},
	} {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()

				b := lattice.NewBuilder()
				b.DeclareConstructors(tt.ctors...)
				lattice.Register[*Logger, *Logger](b)
				lattice.Register[*Circle, *Circle](b)
				lattice.Register[*Square, *Square](b)

				c, err := b.Build()
				require.NoError(t, err)
				assert.Equal(t, tt.side, lattice.MustResolve[*Square](context.Background(), c).Side)
			},
		)
	}
}

func TestActivation_MissingDependency(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewRegistry)
	lattice.Register[Registry, Registry](b)

	c, err := b.Build()
	require.NoError(t, err)

	_, err = lattice.Resolve[Registry](context.Background(), c)
	assert.True(t, lattice.IsActivation(err))
	assert.True(t, lattice.IsNotFound(err))

	err = c.Validate()
	assert.True(t, lattice.IsActivation(err))
}

func TestActivation_ConstructorError(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewBroken)
	lattice.Register[*Broken, *Broken](b)

	c, err := b.Build()
	require.NoError(t, err)

	_, err = lattice.Resolve[*Broken](context.Background(), c)
	assert.True(t, lattice.IsActivation(err))
	assert.ErrorIs(t, err, errBroken)
}

func TestActivation_InjectsContextAndResolver(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewCanvas)
	lattice.Register[Shape, *Circle](b)
	lattice.Register[*Logger, *Logger](b)
	lattice.Register[*Canvas, *Canvas](b)

	c, err := b.Build()
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	canvas := lattice.MustResolve[*Canvas](ctx, c)

	assert.Equal(t, "value", canvas.Ctx.Value(ctxKey{}))
	assert.Same(t, c, canvas.Resolver)
	assert.IsType(t, &Circle{}, canvas.Shape)
	assert.NotNil(t, canvas.Logger)
}

func TestFactory(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.RegisterInstance(b, &Logger{Prefix: "factory"})
	lattice.RegisterFactory(
		b, func(ctx context.Context, r lattice.Resolver) (*Label, error) {
			logger, err := lattice.Resolve[*Logger](ctx, r)
			if err != nil {
				return nil, err
			}
			return &Label{Text: "made", Logger: logger}, nil
		},
	).WithArguments("ignored")

	c, err := b.Build()
	require.NoError(t, err)

	l := lattice.MustResolve[*Label](context.Background(), c)
	assert.Equal(t, "made", l.Text)
	assert.Equal(t, "factory", l.Logger.Prefix)
}

func TestFactory_ErrorWrapsCause(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.RegisterFactory(
		b, func(ctx context.Context, r lattice.Resolver) (*Label, error) {
			_, err := lattice.Resolve[*Logger](ctx, r)
			return nil, err
		},
	)

	c, err := b.Build()
	require.NoError(t, err)

	_, err = lattice.Resolve[*Label](context.Background(), c)
	assert.True(t, lattice.IsActivation(err))
	assert.True(t, lattice.IsNotFound(err))
}

func TestRegisterInstance(t *testing.T) {
	t.Parallel()

	logger := &Logger{Prefix: "shared"}

	b := lattice.NewBuilder()
	lattice.RegisterInstance(b, logger)

	c, err := b.Build()
	require.NoError(t, err)

	assert.Same(t, logger, lattice.MustResolve[*Logger](context.Background(), c))

	b = lattice.NewBuilder()
	lattice.RegisterInstance[*Logger](b, nil)
	_, err = b.Build()
	assert.True(t, lattice.IsInvalidRegistration(err))
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Circle](b)
	lattice.Register[Shape, *Square](b).WithName("square")
	lattice.Register[*Logger, *Logger](b)

	c, err := b.Build()
	require.NoError(t, err)

	shapes, err := lattice.ResolveAll[Shape](context.Background(), c)
	require.NoError(t, err)
	require.Len(t, shapes, 2)
	assert.IsType(t, &Circle{}, shapes[0])
	assert.IsType(t, &Square{}, shapes[1])

	none, err := lattice.ResolveAll[*Rectangle](context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContainer_KeysAndHas(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[Shape, *Square](b).WithName("square")
	lattice.Register[*Logger, *Logger](b)

	c, err := b.Build()
	require.NoError(t, err)

	keys := c.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, lattice.TypeOf[*Logger](), keys[0].Contract)

	assert.True(t, c.Has(lattice.TypeOf[Shape](), ""))
	assert.True(t, c.Has(lattice.TypeOf[Shape](), "square"))
	assert.False(t, c.Has(lattice.TypeOf[Shape](), "circle"))
}

func TestContainer_Validate(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewServiceA, NewServiceB)
	lattice.Register[*ServiceA, *ServiceA](b)
	lattice.Register[*ServiceB, *ServiceB](b)

	c, err := b.Build()
	require.NoError(t, err)

	err = c.Validate()
	assert.True(t, lattice.IsCircularDependency(err))
}

func TestContainer_CloseReleasesSingletons(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[*Resource, *Resource](b).ScopedToSingleton()

	c, err := b.Build()
	require.NoError(t, err)

	r := lattice.MustResolve[*Resource](context.Background(), c)
	require.NoError(t, c.Close())
	assert.True(t, r.closed.Load())
	require.NoError(t, c.Close())
}

func TestContainer_ResolveAfterClose(t *testing.T) {
	t.Parallel()

	b := lattice.NewBuilder()
	lattice.Register[*Resource, *Resource](b).ScopedToSingleton()

	c, err := b.Build()
	require.NoError(t, err)

	ctx := context.Background()
	_ = lattice.MustResolve[*Resource](ctx, c)
	require.NoError(t, c.Close())

	_, err = lattice.Resolve[*Resource](ctx, c)
	assert.True(t, lattice.IsInvalidOperation(err))

	_, err = lattice.ResolveAll[*Resource](ctx, c)
	assert.True(t, lattice.IsInvalidOperation(err))
}

func TestMustResolvePanics(t *testing.T) {
	t.Parallel()

	c, err := lattice.NewBuilder().Build()
	require.NoError(t, err)

	err = recoverError(func() { lattice.MustResolve[*Logger](context.Background(), c) })
	assert.True(t, lattice.IsNotFound(err))
}
