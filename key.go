package lattice

import (
	"reflect"

	lreflect "github.com/danpasecinic/lattice/internal/reflect"
)

// Key identifies a registration: the contract it satisfies, the
// implementation type that backs it (nil for factory registrations) and an
// optional name. Keys are compared by value.
type Key struct {
	Contract       reflect.Type
	Implementation reflect.Type
	Name           string
}

// Conflicts reports whether two keys may not live in the same container:
// they describe the same contract, implementation and name, or they share a
// non-empty name. A name is unique container-wide regardless of type.
func (k Key) Conflicts(other Key) bool {
	if k == other {
		return true
	}
	return k.Name != "" && k.Name == other.Name
}

// Matches is the lookup predicate: the contract must be identical and, when a
// name is requested, the name must match too.
func (k Key) Matches(contract reflect.Type, name string) bool {
	if k.Contract != contract {
		return false
	}
	return name == "" || k.Name == name
}

func (k Key) String() string {
	s := typeName(k.Contract)
	if k.Name != "" {
		s += "#" + k.Name
	}
	if k.Implementation != nil {
		s += " -> " + typeName(k.Implementation)
	}
	return s
}

// TypeOf returns the reflect.Type of T. Interface types are preserved, so
// TypeOf[io.Reader]() yields the interface rather than nil.
func TypeOf[T any]() reflect.Type {
	return lreflect.TypeOf[T]()
}

func typeName(t reflect.Type) string {
	return lreflect.TypeName(t)
}
