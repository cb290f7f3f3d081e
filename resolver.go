package lattice

import (
	"context"
	"fmt"
	"reflect"
)

// Resolver is the view of a Container handed to factories and to
// constructors that declare a Resolver parameter.
type Resolver interface {
	Resolve(ctx context.Context, contract reflect.Type, name string) (any, error)
	ResolveAll(ctx context.Context, contract reflect.Type) ([]any, error)
	Has(contract reflect.Type, name string) bool
}

var resolverType = TypeOf[Resolver]()

func Resolve[T any](ctx context.Context, r Resolver) (T, error) {
	return ResolveNamed[T](ctx, r, "")
}

func ResolveNamed[T any](ctx context.Context, r Resolver, name string) (T, error) {
	var zero T
	contract := TypeOf[T]()

	instance, err := r.Resolve(ctx, contract, name)
	if err != nil {
		return zero, err
	}
	return cast[T](instance, contract)
}

func MustResolve[T any](ctx context.Context, r Resolver) T {
	v, err := Resolve[T](ctx, r)
	if err != nil {
		panic(err)
	}
	return v
}

func MustResolveNamed[T any](ctx context.Context, r Resolver, name string) T {
	v, err := ResolveNamed[T](ctx, r, name)
	if err != nil {
		panic(err)
	}
	return v
}

func TryResolve[T any](ctx context.Context, r Resolver) (T, bool) {
	v, err := Resolve[T](ctx, r)
	return v, err == nil
}

// ResolveAll returns one instance per registration of T, in registration
// order. An unregistered contract yields an empty slice.
func ResolveAll[T any](ctx context.Context, r Resolver) ([]T, error) {
	contract := TypeOf[T]()

	instances, err := r.ResolveAll(ctx, contract)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(instances))
	for _, instance := range instances {
		typed, err := cast[T](instance, contract)
		if err != nil {
			return nil, err
		}
		result = append(result, typed)
	}
	return result, nil
}

func cast[T any](instance any, contract reflect.Type) (T, error) {
	var zero T
	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errActivation(
			typeName(contract),
			fmt.Sprintf("resolved %T does not implement %s", instance, typeName(contract)),
			nil,
		)
	}
	return typed, nil
}
