// Package domain defines the entity and graph types of the recipe chain viewer.
//
// # Entities
//
// Unit, Item, Building and Recipe mirror the on-disk dataset. A Snapshot
// bundles the four collections at one point in time; it is treated as
// read-only for the lifetime of a graph build.
//
// Catalog indexes a snapshot by id and resolves display labels. Dangling
// references never fail: they fall back to a label carrying the raw id
// ("Item 42", "Building 7").
//
// # Chain Graph
//
// Graph, GraphNode and GraphEdge describe the upstream production chain of
// one target recipe. Edges hold endpoint ids, not node pointers, so the
// structure has no reference cycles and can be copied freely.
//
// NodePosition and SavedView persist a layout the user chose to keep.
package domain
