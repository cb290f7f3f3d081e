package lattice_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/lattice"
)

func TestPrintGraphEmpty(t *testing.T) {
	t.Parallel()

	c, err := lattice.NewBuilder().Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	c.FprintGraph(&buf)

	assert.Contains(t, buf.String(), "empty container")
}

func buildDiamond(t *testing.T) *lattice.Container {
	t.Helper()

	b := lattice.NewBuilder()
	b.DeclareConstructors(NewLeft, NewRight, NewTop)
	lattice.Register[*Bottom, *Bottom](b).ScopedToSingleton()
	lattice.Register[*Left, *Left](b)
	lattice.Register[*Right, *Right](b)
	lattice.Register[*Top, *Top](b)
	lattice.RegisterInstance(b, &Logger{})

	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestGraph(t *testing.T) {
	t.Parallel()

	c := buildDiamond(t)
	info := c.Graph()
	require.Len(t, info.Registrations, 5)

	byKey := make(map[string]lattice.RegistrationInfo)
	for _, r := range info.Registrations {
		byKey[r.Key] = r
	}

	top := byKey[lattice.Key{Contract: lattice.TypeOf[*Top](), Implementation: lattice.TypeOf[*Top]()}.String()]
	assert.Len(t, top.Dependencies, 2)
	assert.Equal(t, "constructor", top.Activator)
	assert.Equal(t, "transient", top.Lifetime)

	bottom := byKey[lattice.Key{Contract: lattice.TypeOf[*Bottom](), Implementation: lattice.TypeOf[*Bottom]()}.String()]
	assert.Empty(t, bottom.Dependencies)
	assert.Len(t, bottom.Dependents, 2)
	assert.Equal(t, "singleton", bottom.Lifetime)

	logger := byKey[lattice.Key{Contract: lattice.TypeOf[*Logger](), Implementation: lattice.TypeOf[*Logger]()}.String()]
	assert.Equal(t, "factory", logger.Activator)
}

func TestPrintGraph(t *testing.T) {
	t.Parallel()

	out := buildDiamond(t).SprintGraph()

	assert.Contains(t, out, "[singleton]")
	assert.Contains(t, out, "lattice_test.Top")
	assert.Contains(t, out, "←")
}

func TestPrintGraphDOT(t *testing.T) {
	t.Parallel()

	out := buildDiamond(t).SprintGraphDOT()

	assert.Contains(t, out, "digraph dependencies {")
	assert.Contains(t, out, "->")
	assert.Contains(t, out, "style=dashed")
	assert.Contains(t, out, `label="lattice_test.Top -> lattice_test.Top"`)
}
