package lattice

import (
	"context"

	"github.com/google/uuid"

	"github.com/danpasecinic/lattice/internal/container"
)

type scopeKey struct{}

// Scope is an ambient unit of work, such as one HTTP request. PerScope
// registrations resolve to one instance per Scope. A Scope travels in a
// context.Context and must be closed by whoever opened it.
type Scope struct {
	id    string
	cache *container.Cache
}

func NewScope() *Scope {
	return &Scope{
		id:    uuid.NewString(),
		cache: container.NewCache(),
	}
}

func (s *Scope) ID() string {
	return s.id
}

// Close releases the instances created in this scope, closing those that
// implement io.Closer in reverse creation order.
func (s *Scope) Close() error {
	return s.cache.Close()
}

// WithScope opens a new scope and attaches it to ctx.
func WithScope(ctx context.Context) (context.Context, *Scope) {
	s := NewScope()
	return ContextWithScope(ctx, s), s
}

func ContextWithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

func ScopeFrom(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}
