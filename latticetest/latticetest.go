// Package latticetest provides helpers for building and inspecting
// containers in tests.
package latticetest

import (
	"context"

	"github.com/danpasecinic/lattice"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestContainer wraps a Builder and the Container it produces. The container
// is closed when the test finishes.
type TestContainer struct {
	*lattice.Builder
	tb        TB
	container *lattice.Container
}

func New(tb TB, opts ...lattice.Option) *TestContainer {
	tb.Helper()

	tc := &TestContainer{
		Builder: lattice.NewBuilder(opts...),
		tb:      tb,
	}

	tb.Cleanup(
		func() {
			if tc.container == nil {
				return
			}
			if err := tc.container.Close(); err != nil {
				tb.Fatalf("failed to close container: %v", err)
			}
		},
	)

	return tc
}

// RequireBuild builds the container once and returns it on later calls.
func (tc *TestContainer) RequireBuild() *lattice.Container {
	tc.tb.Helper()

	if tc.container != nil {
		return tc.container
	}

	c, err := tc.Build()
	if err != nil {
		tc.tb.Fatalf("failed to build container: %v", err)
	}
	tc.container = c
	return c
}

// RequireBuildError fails the test unless Build fails with an error matching
// is, such as lattice.IsRegistrationAlreadyExists.
func (tc *TestContainer) RequireBuildError(is func(error) bool) error {
	tc.tb.Helper()

	c, err := tc.Build()
	if err == nil {
		tc.container = c
		tc.tb.Fatal("expected build to fail")
	}
	if !is(err) {
		tc.tb.Fatalf("unexpected build error: %v", err)
	}
	return err
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.RequireBuild().Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

func MustRegisterInstance[C any](tc *TestContainer, value C) *lattice.FluentRegistration {
	tc.tb.Helper()
	return lattice.RegisterInstance(tc.Builder, value)
}

func AssertHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if !tc.RequireBuild().Has(lattice.TypeOf[T](), "") {
		tc.tb.Fatalf("expected container to have %s", lattice.TypeOf[T]())
	}
}

func AssertHasNamed[T any](tc *TestContainer, name string) {
	tc.tb.Helper()

	if !tc.RequireBuild().Has(lattice.TypeOf[T](), name) {
		tc.tb.Fatalf("expected container to have %s#%s", lattice.TypeOf[T](), name)
	}
}

func AssertNotHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if tc.RequireBuild().Has(lattice.TypeOf[T](), "") {
		tc.tb.Fatalf("expected container to not have %s", lattice.TypeOf[T]())
	}
}

func MustResolve[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := lattice.Resolve[T](context.Background(), tc.RequireBuild())
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", lattice.TypeOf[T](), err)
	}
	return v
}

func MustResolveNamed[T any](tc *TestContainer, name string) T {
	tc.tb.Helper()

	v, err := lattice.ResolveNamed[T](context.Background(), tc.RequireBuild(), name)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s#%s: %v", lattice.TypeOf[T](), name, err)
	}
	return v
}

// MustResolveIn resolves T inside the ambient scope carried by ctx.
func MustResolveIn[T any](ctx context.Context, tc *TestContainer) T {
	tc.tb.Helper()

	v, err := lattice.Resolve[T](ctx, tc.RequireBuild())
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", lattice.TypeOf[T](), err)
	}
	return v
}
