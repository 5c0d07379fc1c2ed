package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentDep(name string, access Access) Dependency {
	return Dependency{Resource: Resource{Kind: ComponentResource, Name: name}, Access: access}
}

func namesIn(systems []System, layers [][]ID) [][]string {
	byID := make(map[ID]string, len(systems))
	for _, s := range systems {
		byID[s.ID] = s.Name
	}
	out := make([][]string, len(layers))
	for i, layer := range layers {
		for _, id := range layer {
			out[i] = append(out[i], byID[id])
		}
	}
	return out
}

func TestSchedule_NoForcedOrdering(t *testing.T) {
	systems := []System{
		{ID: 1, Name: "Producer", Dependencies: []Dependency{componentDep("x", Read)}},
		{ID: 2, Name: "Consumer", Dependencies: []Dependency{componentDep("y", Read)}},
		{ID: 3, Name: "Transformer", Dependencies: []Dependency{componentDep("x", Read), componentDep("y", Write)}},
		{ID: 4, Name: "Backflow", Dependencies: []Dependency{componentDep("y", Read), componentDep("x", Write)}},
	}

	layers, err := Schedule(systems)
	require.NoError(t, err)

	got := namesIn(systems, layers)
	assert.Equal(t, [][]string{
		{"Backflow"},
		{"Producer", "Transformer"},
		{"Consumer"},
	}, got)
}

func TestSchedule_ForcedOrderingOverridesTieBreak(t *testing.T) {
	systems := []System{
		{ID: 1, Name: "Producer", Dependencies: []Dependency{componentDep("x", Write)}},
		{ID: 2, Name: "Consumer", Dependencies: []Dependency{componentDep("y", Read)}},
		{ID: 3, Name: "Transformer", RunAfter: []string{"Consumer"}, Dependencies: []Dependency{componentDep("x", Read), componentDep("y", Write)}},
		{ID: 4, Name: "Backflow", Dependencies: []Dependency{componentDep("y", Read), componentDep("x", Write)}},
	}

	layers, err := Schedule(systems)
	require.NoError(t, err)

	got := namesIn(systems, layers)
	assert.Equal(t, [][]string{
		{"Consumer", "Backflow"},
		{"Producer"},
		{"Transformer"},
	}, got)
}

func TestSchedule_CycleByRunAfter(t *testing.T) {
	systems := []System{
		{ID: 1, Name: "A", RunAfter: []string{"B"}},
		{ID: 2, Name: "B", RunAfter: []string{"A"}},
	}

	_, err := Schedule(systems)
	require.Error(t, err)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestSchedule_SingleSystem(t *testing.T) {
	systems := []System{
		{ID: 1, Name: "Solo", Dependencies: []Dependency{componentDep("x", Write)}},
	}
	layers, err := Schedule(systems)
	require.NoError(t, err)
	assert.Equal(t, [][]ID{{1}}, layers)
}

func TestSchedule_CoReadersShareLayer(t *testing.T) {
	systems := []System{
		{ID: 1, Name: "ReaderA", Dependencies: []Dependency{componentDep("x", Read)}},
		{ID: 2, Name: "ReaderB", Dependencies: []Dependency{componentDep("x", Read)}},
	}
	layers, err := Schedule(systems)
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.ElementsMatch(t, []ID{1, 2}, layers[0])
}

func TestSchedule_DeterministicAcrossInputOrder(t *testing.T) {
	a := []System{
		{ID: 1, Name: "Producer", Dependencies: []Dependency{componentDep("x", Write)}},
		{ID: 2, Name: "Consumer", Dependencies: []Dependency{componentDep("y", Read)}},
		{ID: 3, Name: "Transformer", Dependencies: []Dependency{componentDep("x", Read), componentDep("y", Write)}},
	}
	b := []System{a[2], a[0], a[1]}

	layersA, err := Schedule(a)
	require.NoError(t, err)
	layersB, err := Schedule(b)
	require.NoError(t, err)

	assert.Equal(t, layersA, layersB)
}
