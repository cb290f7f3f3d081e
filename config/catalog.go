package config

import (
	"reflect"

	"github.com/danpasecinic/lattice"
	lreflect "github.com/danpasecinic/lattice/internal/reflect"
)

// Catalog maps type names to types. Each type is reachable by its fully
// qualified name ("*github.com/acme/shapes.Circle") and by its short
// reflect name ("*shapes.Circle").
type Catalog struct {
	types map[string]reflect.Type
}

func NewCatalog(types ...reflect.Type) *Catalog {
	c := &Catalog{types: make(map[string]reflect.Type)}
	return c.Add(types...)
}

func (c *Catalog) Add(types ...reflect.Type) *Catalog {
	for _, t := range types {
		if t == nil {
			continue
		}
		c.types[lreflect.TypeName(t)] = t
		c.types[t.String()] = t
	}
	return c
}

func AddType[T any](c *Catalog) *Catalog {
	return c.Add(lattice.TypeOf[T]())
}

func (c *Catalog) Lookup(name string) (reflect.Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

func (c *Catalog) Len() int {
	seen := make(map[reflect.Type]struct{}, len(c.types))
	for _, t := range c.types {
		seen[t] = struct{}{}
	}
	return len(seen)
}
