package lattice

import (
	"context"
	"fmt"
	"reflect"

	lreflect "github.com/danpasecinic/lattice/internal/reflect"
)

// Activator turns a registration into a raw instance. Reuse is decided
// afterwards by the registration's ReuseStrategy.
type Activator interface {
	Activate(ctx context.Context, c *Container, args []any) (any, error)
}

type factoryActivator struct {
	service string
	fn      func(ctx context.Context, r Resolver) (any, error)
}

// Activate ignores explicit arguments; the factory owns its construction.
func (a *factoryActivator) Activate(ctx context.Context, c *Container, _ []any) (any, error) {
	instance, err := a.fn(ctx, c)
	if err != nil {
		return nil, errActivation(a.service, "factory returned an error", err)
	}
	return instance, nil
}

type constructor struct {
	fn         reflect.Value
	params     []reflect.Type
	returnsErr bool
	implicit   bool
}

func (k *constructor) String() string {
	if k.implicit {
		return "implicit default constructor"
	}
	return k.fn.Type().String()
}

// parseConstructor validates a declared constructor and returns it together
// with the implementation type it builds.
func parseConstructor(fn any) (*constructor, reflect.Type, error) {
	if fn == nil {
		return nil, nil, fmt.Errorf("constructor cannot be nil")
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, nil, fmt.Errorf("constructor must be a function, got %s", t)
	}
	if v.IsNil() {
		return nil, nil, fmt.Errorf("constructor cannot be nil")
	}
	if t.IsVariadic() {
		return nil, nil, fmt.Errorf("constructor %s must not be variadic", t)
	}

	switch t.NumOut() {
	case 1:
	case 2:
		if !lreflect.IsError(t.Out(1)) {
			return nil, nil, fmt.Errorf("second result of constructor %s must be error", t)
		}
	default:
		return nil, nil, fmt.Errorf("constructor %s must return (T) or (T, error)", t)
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return &constructor{
		fn:         v,
		params:     params,
		returnsErr: t.NumOut() == 2,
	}, t.Out(0), nil
}

func implicitConstructor() *constructor {
	return &constructor{implicit: true}
}

type constructorActivator struct {
	implementation reflect.Type
	constructors   []*constructor
	useDefault     bool
}

func newConstructorActivator(implementation reflect.Type, declared []*constructor, useDefault bool) *constructorActivator {
	ctors := make([]*constructor, 0, len(declared)+1)
	ctors = append(ctors, declared...)

	hasDefault := false
	for _, k := range declared {
		if len(k.params) == 0 {
			hasDefault = true
			break
		}
	}
	if !hasDefault && lreflect.ZeroConstructible(implementation) {
		ctors = append(ctors, implicitConstructor())
	}

	return &constructorActivator{
		implementation: implementation,
		constructors:   ctors,
		useDefault:     useDefault,
	}
}

func (a *constructorActivator) service() string {
	return typeName(a.implementation)
}

func (a *constructorActivator) Activate(ctx context.Context, c *Container, args []any) (any, error) {
	ctor, explicit, err := a.selectConstructor(c, args)
	if err != nil {
		return nil, err
	}

	if ctor.implicit {
		return lreflect.NewZero(a.implementation).Interface(), nil
	}

	in := make([]reflect.Value, len(ctor.params))
	copy(in, explicit)
	for i := len(explicit); i < len(ctor.params); i++ {
		v, err := a.resolveParam(ctx, c, ctor.params[i])
		if err != nil {
			return nil, errActivation(
				a.service(),
				fmt.Sprintf("cannot resolve parameter %d (%s) of %s", i, typeName(ctor.params[i]), ctor),
				err,
			)
		}
		in[i] = v
	}

	out := ctor.fn.Call(in)
	if ctor.returnsErr && !out[1].IsNil() {
		return nil, errActivation(a.service(), "constructor returned an error", out[1].Interface().(error))
	}
	return out[0].Interface(), nil
}

func (a *constructorActivator) resolveParam(ctx context.Context, c *Container, p reflect.Type) (reflect.Value, error) {
	switch {
	case lreflect.IsContext(p):
		return reflect.ValueOf(ctx), nil
	case p == resolverType:
		return reflect.ValueOf(Resolver(c)), nil
	}

	instance, err := c.Resolve(ctx, p, "")
	if err != nil {
		return reflect.Value{}, err
	}
	if instance == nil {
		return reflect.Zero(p), nil
	}

	v := reflect.ValueOf(instance)
	if !v.Type().AssignableTo(p) {
		return reflect.Value{}, fmt.Errorf("resolved %s is not assignable to %s", v.Type(), p)
	}
	return v, nil
}

func (a *constructorActivator) resolvable(c *Container, p reflect.Type) bool {
	return lreflect.IsContext(p) || p == resolverType || c.Has(p, "")
}

// selectConstructor applies the selection policy: the default constructor
// when forced; with n explicit arguments the first constructor taking exactly
// n accepting parameters, else the widest one whose leading n parameters
// accept them and whose rest is resolvable; without arguments the widest
// constructor whose parameters are all resolvable. Ties go to the constructor
// declared first.
func (a *constructorActivator) selectConstructor(c *Container, args []any) (*constructor, []reflect.Value, error) {
	if a.useDefault {
		for _, k := range a.constructors {
			if len(k.params) == 0 {
				return k, nil, nil
			}
		}
		return nil, nil, errActivation(a.service(), "no default constructor available", nil)
	}

	n := len(args)
	if n > 0 {
		for _, k := range a.constructors {
			if len(k.params) != n {
				continue
			}
			if explicit, ok := accepts(k, args); ok {
				return k, explicit, nil
			}
		}
	}

	var best *constructor
	var bestExplicit []reflect.Value
	for _, k := range a.constructors {
		if len(k.params) <= n && n > 0 {
			continue
		}
		if best != nil && len(k.params) <= len(best.params) {
			continue
		}

		explicit, ok := accepts(k, args)
		if !ok {
			continue
		}

		allResolvable := true
		for _, p := range k.params[n:] {
			if !a.resolvable(c, p) {
				allResolvable = false
				break
			}
		}
		if allResolvable {
			best, bestExplicit = k, explicit
		}
	}

	if best == nil {
		if n > 0 {
			return nil, nil, errActivation(
				a.service(),
				fmt.Sprintf("no constructor accepts %d explicit argument(s)", n),
				nil,
			)
		}
		return nil, nil, errActivation(
			a.service(),
			"no constructor with resolvable parameters",
			a.unresolvedCause(c),
		)
	}
	return best, bestExplicit, nil
}

// unresolvedCause reports why the first unresolvable parameter of the widest
// constructor could not be satisfied.
func (a *constructorActivator) unresolvedCause(c *Container) error {
	var widest *constructor
	for _, k := range a.constructors {
		if widest == nil || len(k.params) > len(widest.params) {
			widest = k
		}
	}
	if widest == nil {
		return nil
	}

	for _, p := range widest.params {
		if a.resolvable(c, p) {
			continue
		}
		_, err := c.lookup(p, "")
		return err
	}
	return nil
}

// accepts coerces args onto the leading parameters of k.
func accepts(k *constructor, args []any) ([]reflect.Value, bool) {
	if len(args) > len(k.params) {
		return nil, false
	}

	explicit := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, ok := lreflect.Coerce(arg, k.params[i])
		if !ok {
			return nil, false
		}
		explicit[i] = v
	}
	return explicit, true
}
