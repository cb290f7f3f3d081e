// Package lattice provides an inversion-of-control container with a
// deferred, fluent registration API.
//
// Registrations are collected by a Builder, configured in any order through
// their FluentRegistration handles and validated all at once by Build. The
// resulting Container is immutable and safe for concurrent resolution.
//
// # Quick Start
//
//	b := lattice.NewBuilder()
//	b.DeclareConstructors(NewCircle, NewSquare)
//
//	lattice.Register[Shape, *Circle](b).WithName("circle").WithArguments(2.0)
//	lattice.Register[Shape, *Square](b).WithName("square").ScopedToSingleton()
//
//	c, err := b.Build()
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	square, err := lattice.ResolveNamed[Shape](ctx, c, "square")
//
// # Registrations
//
// A registration binds a contract type to a way of building it:
//
//	b.Register(contract, implementation)          // constructor activation
//	lattice.Register[C, I](b)                     // generic form
//	lattice.RegisterFactory[C](b, factory)        // func(ctx, Resolver) (C, error)
//	lattice.RegisterInstance[C](b, value)         // pre-built singleton
//
// Nothing is checked until Build. Build reports the first invalid
// registration or the first key conflict in registration order. Two keys
// conflict when contract, implementation and name are all equal, or when
// they share a non-empty name.
//
// # Constructors
//
// Go cannot enumerate the constructors of a type, so they are declared:
//
//	func NewCircle(radius float64) *Circle
//	func NewRenderer(shape Shape, log *zap.Logger) (*Renderer, error)
//
//	b.DeclareConstructors(NewCircle, NewRenderer)
//
// Struct types and pointers to structs also get an implicit zero-value
// constructor when no parameterless one is declared. Without explicit
// arguments the widest constructor whose parameters can all be resolved is
// used. WithArguments fills the leading parameters in order;
// UseDefaultConstructor forces the parameterless one. Parameters of type
// context.Context or Resolver are injected directly.
//
// # Reuse
//
// Each registration owns one ReuseStrategy:
//
//	.ScopedToTransient()   // new instance per resolution (default)
//	.ScopedToSingleton()   // one instance per container
//	.ScopedToScope()       // one instance per ambient Scope
//	.ScopedTo(factory)     // any ReuseFactory
//
// The builder-wide default is set with DefaultScopedTo and read at Build.
// Ambient scopes travel in the context:
//
//	ctx, scope := lattice.WithScope(ctx)
//	defer scope.Close()
//
// # Resolution
//
//	svc, err := lattice.Resolve[*Service](ctx, c)
//	svc := lattice.MustResolve[*Service](ctx, c)
//	all, err := lattice.ResolveAll[Shape](ctx, c)
//
// An unnamed lookup picks the single unnamed registration of a contract, or
// the single named one when there is no unnamed registration. Cycles are
// reported as CircularDependency errors carrying the path.
//
// # Errors
//
// Every failure is an *Error with an ErrorCode. errors.Is matches codes
// through wrapping:
//
//	if lattice.IsCircularDependency(err) { ... }
//	if errors.Is(err, lattice.ErrRegistrationNotFound) { ... }
//
// # Modules
//
//	var Shapes = lattice.NewModule("shapes")
//	lattice.ModuleDeclareConstructors(Shapes, NewCircle)
//	lattice.ModuleRegister[Shape, *Circle](Shapes)
//
//	b.RegisterModule(Shapes)
//
// # Observability
//
//	b := lattice.NewBuilder(
//	    lattice.WithLogger(logger),
//	    lattice.WithResolveObserver(func(key string, d time.Duration, err error) {
//	        collector.ObserveResolve(key, d, err)
//	    }),
//	)
//
// Print the dependency graph with PrintGraph, SprintGraph or
// FprintGraphDOT, and check it statically with Validate.
package lattice
