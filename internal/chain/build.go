package chain

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"recipechain/internal/domain"
	"recipechain/internal/geom"
)

// DefaultSeedBounds is the region new nodes are scattered over
var DefaultSeedBounds = geom.Rect{MinX: 100, MinY: 100, MaxX: 900, MaxY: 500}

// Rand is the random source used to seed node positions
type Rand interface {
	Float64() float64
}

// Builder turns a resolved id set into a graph
type Builder struct {
	Bounds geom.Rect
	Rand   Rand
}

// NewBuilder creates a builder seeding positions over DefaultSeedBounds
// from a generator derived from seed
func NewBuilder(seed uint64) *Builder {
	return &Builder{
		Bounds: DefaultSeedBounds,
		Rand:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// BuildGraph builds a graph with positions seeded from the global source
func BuildGraph(recipes []domain.Recipe, target int, ids IDSet) *domain.Graph {
	b := &Builder{Bounds: DefaultSeedBounds}
	return b.Build(recipes, target, ids)
}

// Build creates one node per id in ids and one edge per producer output
// that another included recipe consumes. Nodes follow the order of
// recipes; ids with no recipe are appended as placeholders in ascending
// order.
func (b *Builder) Build(recipes []domain.Recipe, target int, ids IDSet) *domain.Graph {
	g := domain.NewGraph(target)

	included := make([]*domain.Recipe, 0, len(ids))
	seen := make(IDSet, len(ids))
	for i := range recipes {
		r := &recipes[i]
		if !ids.Has(r.RecipeID) || seen.Has(r.RecipeID) {
			continue
		}
		seen.Add(r.RecipeID)
		included = append(included, r)
		g.AddNode(b.node(*r, false))
	}

	missing := make([]int, 0)
	for id := range ids {
		if !seen.Has(id) {
			missing = append(missing, id)
		}
	}
	sort.Ints(missing)
	for _, id := range missing {
		g.AddNode(b.node(domain.Recipe{
			RecipeID:   id,
			RecipeName: fmt.Sprintf("Recipe %d", id),
		}, true))
	}

	counts := make(map[string]int)
	for _, producer := range included {
		for _, consumer := range included {
			if producer.RecipeID == consumer.RecipeID {
				continue
			}
			for _, out := range producer.Outputs {
				if !consumer.Consumes(out.ItemID) {
					continue
				}
				e := domain.GraphEdge{
					Source: domain.NodeID(producer.RecipeID),
					Target: domain.NodeID(consumer.RecipeID),
					ItemID: out.ItemID,
					Amount: out.Amount,
				}
				e.ID = edgeID(e, counts)
				g.AddEdge(e)
			}
		}
	}
	return g
}

func (b *Builder) node(r domain.Recipe, placeholder bool) domain.GraphNode {
	return domain.GraphNode{
		ID:          domain.NodeID(r.RecipeID),
		Recipe:      r,
		Placeholder: placeholder,
		X:           b.Bounds.MinX + b.float()*b.Bounds.Width(),
		Y:           b.Bounds.MinY + b.float()*b.Bounds.Height(),
	}
}

func (b *Builder) float() float64 {
	if b.Rand == nil {
		return rand.Float64()
	}
	return b.Rand.Float64()
}

func edgeID(e domain.GraphEdge, counts map[string]int) string {
	base := fmt.Sprintf("%s->%s:%d", e.Source, e.Target, e.ItemID)
	counts[base]++
	if n := counts[base]; n > 1 {
		return fmt.Sprintf("%s#%d", base, n)
	}
	return base
}
