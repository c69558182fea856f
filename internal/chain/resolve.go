// Package chain computes the upstream production chain of a recipe and
// turns it into the node/edge graph the layout engine animates.
package chain

import (
	"sort"

	"recipechain/internal/domain"
)

// IDSet is a set of recipe ids
type IDSet map[int]struct{}

// NewIDSet creates a set holding the given ids
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id
func (s IDSet) Add(id int) {
	s[id] = struct{}{}
}

// Sorted returns the ids in ascending order
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone copies the set
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// ResolveChain returns the target recipe plus every recipe that,
// transitively, produces one of its inputs. Every producer of an input is
// included, not just one. Cycles terminate because a recipe is expanded at
// most once. An id with no matching recipe still appears in the result but
// contributes no producers.
func ResolveChain(recipes []domain.Recipe, target int) IDSet {
	byID := make(map[int]*domain.Recipe, len(recipes))
	producers := make(map[int][]int)
	for i := range recipes {
		r := &recipes[i]
		if _, dup := byID[r.RecipeID]; !dup {
			byID[r.RecipeID] = r
		}
		for _, out := range r.Outputs {
			producers[out.ItemID] = append(producers[out.ItemID], r.RecipeID)
		}
	}

	visited := make(IDSet)
	work := []int{target}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		if visited.Has(id) {
			continue
		}
		visited.Add(id)

		r, ok := byID[id]
		if !ok {
			continue
		}
		for _, in := range r.Inputs {
			for _, p := range producers[in.ItemID] {
				if !visited.Has(p) {
					work = append(work, p)
				}
			}
		}
	}
	return visited
}
