// Package repository defines the data access interfaces for recipechain.
//
// The only persisted state outside the data directory is the set of saved
// views: named layouts (view transform plus node positions) captured for a
// target recipe so they can be restored later. The implementation lives in
// the sqlite subpackage, which migrates its schema on startup and is tested
// against in-memory databases.
package repository
