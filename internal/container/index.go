package container

import (
	"errors"
	"reflect"
)

var (
	ErrNotFound  = errors.New("no matching registration")
	ErrAmbiguous = errors.New("more than one matching registration")
)

// Index is the frozen lookup table of a built container. It is written once
// during build and only read afterwards, so it carries no lock.
type Index[E any] struct {
	entries    []E
	contracts  []reflect.Type
	names      []string
	byContract map[reflect.Type][]int
	byName     map[string]int
}

func NewIndex[E any]() *Index[E] {
	return &Index[E]{
		byContract: make(map[reflect.Type][]int),
		byName:     make(map[string]int),
	}
}

// Add appends an entry. Name uniqueness is the caller's concern; a repeated
// name replaces the previous name mapping.
func (ix *Index[E]) Add(contract reflect.Type, name string, entry E) {
	pos := len(ix.entries)
	ix.entries = append(ix.entries, entry)
	ix.contracts = append(ix.contracts, contract)
	ix.names = append(ix.names, name)
	ix.byContract[contract] = append(ix.byContract[contract], pos)
	if name != "" {
		ix.byName[name] = pos
	}
}

// Lookup selects the entry for contract. A non-empty name must match exactly.
// Without a name, the single unnamed entry wins; with no unnamed entry a
// single named entry is accepted; anything else is ambiguous.
func (ix *Index[E]) Lookup(contract reflect.Type, name string) (E, error) {
	var zero E

	if name != "" {
		pos, ok := ix.byName[name]
		if !ok || ix.contracts[pos] != contract {
			return zero, ErrNotFound
		}
		return ix.entries[pos], nil
	}

	candidates := ix.byContract[contract]
	if len(candidates) == 0 {
		return zero, ErrNotFound
	}

	unnamed := -1
	unnamedCount := 0
	for _, pos := range candidates {
		if ix.names[pos] == "" {
			unnamed = pos
			unnamedCount++
		}
	}

	switch {
	case unnamedCount == 1:
		return ix.entries[unnamed], nil
	case unnamedCount > 1:
		return zero, ErrAmbiguous
	case len(candidates) == 1:
		return ix.entries[candidates[0]], nil
	default:
		return zero, ErrAmbiguous
	}
}

// All returns every entry registered for contract in insertion order.
func (ix *Index[E]) All(contract reflect.Type) []E {
	positions := ix.byContract[contract]
	result := make([]E, len(positions))
	for i, pos := range positions {
		result[i] = ix.entries[pos]
	}
	return result
}

// Entries returns every entry in insertion order.
func (ix *Index[E]) Entries() []E {
	result := make([]E, len(ix.entries))
	copy(result, ix.entries)
	return result
}

func (ix *Index[E]) Size() int {
	return len(ix.entries)
}
