package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechain/internal/domain"
)

type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

func TestBuildGraphSingleEdge(t *testing.T) {
	recipes := []domain.Recipe{
		recipe(1, nil, items(amt(10, 5))),
		recipe(2, items(amt(10, 3)), nil),
	}

	g := NewBuilder(1).Build(recipes, 2, NewIDSet(1, 2))

	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	e := g.Edges[0]
	assert.Equal(t, "1", e.Source)
	assert.Equal(t, "2", e.Target)
	assert.Equal(t, 10, e.ItemID)
	assert.Equal(t, 5.0, e.Amount)
	assert.Equal(t, "1->2:10", e.ID)
}

func TestBuildGraphNoConsumer(t *testing.T) {
	recipes := []domain.Recipe{
		recipe(1, nil, items(amt(10, 5))),
		recipe(2, items(amt(11, 3)), nil),
	}

	g := NewBuilder(1).Build(recipes, 2, NewIDSet(1, 2))

	assert.Len(t, g.Nodes, 2)
	assert.Empty(t, g.Edges)
}

func TestBuildGraphOnlyIncludedRecipes(t *testing.T) {
	recipes := []domain.Recipe{
		recipe(1, nil, items(amt(10, 5))),
		recipe(2, items(amt(10, 3)), nil),
		recipe(3, items(amt(10, 1)), nil),
	}

	g := NewBuilder(1).Build(recipes, 2, NewIDSet(1, 2))

	ids := make([]string, 0)
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"1", "2"}, ids)
	assert.Len(t, g.Edges, 1)
}

func TestBuildGraphSeedBounds(t *testing.T) {
	recipes := []domain.Recipe{recipe(1, nil, nil), recipe(2, nil, nil)}

	low := (&Builder{Bounds: DefaultSeedBounds, Rand: fixedRand{0}}).Build(recipes, 1, NewIDSet(1, 2))
	high := (&Builder{Bounds: DefaultSeedBounds, Rand: fixedRand{0.999999}}).Build(recipes, 1, NewIDSet(1, 2))

	assert.Equal(t, 100.0, low.Nodes[0].X)
	assert.Equal(t, 100.0, low.Nodes[0].Y)
	assert.InDelta(t, 900, high.Nodes[1].X, 0.01)
	assert.InDelta(t, 500, high.Nodes[1].Y, 0.01)

	random := BuildGraph(recipes, 1, NewIDSet(1, 2))
	for _, n := range random.Nodes {
		assert.True(t, n.X >= 100 && n.X <= 900, "x out of range: %v", n.X)
		assert.True(t, n.Y >= 100 && n.Y <= 500, "y out of range: %v", n.Y)
	}
}

func TestBuildGraphRebuildKeepsTopology(t *testing.T) {
	recipes := []domain.Recipe{
		recipe(1, items(amt(10, 2)), items(amt(100, 1))),
		recipe(2, items(amt(20, 1)), items(amt(10, 2))),
		recipe(3, nil, items(amt(20, 1))),
	}
	ids := ResolveChain(recipes, 1)

	a := NewBuilder(1).Build(recipes, 1, ids)
	b := NewBuilder(2).Build(recipes, 1, ids)

	assert.Equal(t, a.Edges, b.Edges)
	require.Len(t, b.Nodes, len(a.Nodes))
	for i := range a.Nodes {
		assert.Equal(t, a.Nodes[i].ID, b.Nodes[i].ID)
	}
	assert.NotEqual(t, a.Nodes[0].X, b.Nodes[0].X)
}

func TestBuildGraphPlaceholderNode(t *testing.T) {
	g := NewBuilder(1).Build(nil, 42, ResolveChain(nil, 42))

	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "42", g.Nodes[0].ID)
	assert.True(t, g.Nodes[0].Placeholder)
	assert.Equal(t, "Recipe 42", g.Nodes[0].Recipe.RecipeName)
	assert.Empty(t, g.Edges)
}

func TestBuildGraphRepeatedOutputs(t *testing.T) {
	recipes := []domain.Recipe{
		recipe(1, nil, items(amt(10, 1), amt(10, 2))),
		recipe(2, items(amt(10, 3)), nil),
	}

	g := NewBuilder(1).Build(recipes, 2, NewIDSet(1, 2))

	require.Len(t, g.Edges, 2)
	assert.Equal(t, "1->2:10", g.Edges[0].ID)
	assert.Equal(t, "1->2:10#2", g.Edges[1].ID)
	assert.Equal(t, 2.0, g.Edges[1].Amount)
}

func TestBuildGraphMutualEdges(t *testing.T) {
	recipes := []domain.Recipe{
		recipe(1, items(amt(20, 1)), items(amt(10, 1))),
		recipe(2, items(amt(10, 1)), items(amt(20, 1))),
	}

	g := NewBuilder(1).Build(recipes, 1, ResolveChain(recipes, 1))

	require.Len(t, g.Edges, 2)
	assert.Equal(t, "1->2:10", g.Edges[0].ID)
	assert.Equal(t, "2->1:20", g.Edges[1].ID)
}

func TestEndToEndScenario(t *testing.T) {
	recipes := []domain.Recipe{
		recipe(1, items(amt(10, 2)), items(amt(11, 1))),
		recipe(2, nil, items(amt(10, 2))),
	}

	ids := ResolveChain(recipes, 1)
	assert.Equal(t, []int{1, 2}, ids.Sorted())

	g := NewBuilder(7).Build(recipes, 1, ids)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "2", g.Edges[0].Source)
	assert.Equal(t, "1", g.Edges[0].Target)
	assert.Equal(t, 10, g.Edges[0].ItemID)
	assert.Equal(t, 2.0, g.Edges[0].Amount)
}
