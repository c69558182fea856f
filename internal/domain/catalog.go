package domain

import "fmt"

// Catalog indexes a snapshot by id. Lookups never fail: a dangling
// reference resolves to a placeholder label carrying the raw id.
type Catalog struct {
	units     map[int]*Unit
	items     map[int]*Item
	buildings map[int]*Building
	recipes   map[int]*Recipe
}

// NewCatalog indexes the given snapshot. The first entity with a given id
// wins. A nil snapshot yields an empty catalog.
func NewCatalog(s *Snapshot) *Catalog {
	c := &Catalog{
		units:     make(map[int]*Unit),
		items:     make(map[int]*Item),
		buildings: make(map[int]*Building),
		recipes:   make(map[int]*Recipe),
	}
	if s == nil {
		return c
	}
	for i := range s.Units {
		if _, dup := c.units[s.Units[i].UnitID]; !dup {
			c.units[s.Units[i].UnitID] = &s.Units[i]
		}
	}
	for i := range s.Items {
		if _, dup := c.items[s.Items[i].ItemID]; !dup {
			c.items[s.Items[i].ItemID] = &s.Items[i]
		}
	}
	for i := range s.Buildings {
		if _, dup := c.buildings[s.Buildings[i].BuildingID]; !dup {
			c.buildings[s.Buildings[i].BuildingID] = &s.Buildings[i]
		}
	}
	for i := range s.Recipes {
		if _, dup := c.recipes[s.Recipes[i].RecipeID]; !dup {
			c.recipes[s.Recipes[i].RecipeID] = &s.Recipes[i]
		}
	}
	return c
}

// ItemName returns the item's name, or "Item <id>" when it does not exist
func (c *Catalog) ItemName(itemID int) string {
	if item, ok := c.items[itemID]; ok && item.ItemName != "" {
		return item.ItemName
	}
	return fmt.Sprintf("Item %d", itemID)
}

// BuildingName returns the building's name, or "Building <id>" when it does not exist
func (c *Catalog) BuildingName(buildingID int) string {
	if b, ok := c.buildings[buildingID]; ok && b.BuildingName != "" {
		return b.BuildingName
	}
	return fmt.Sprintf("Building %d", buildingID)
}

// UnitName returns the unit name used to measure an item, or "" if either
// the item or its unit is unknown
func (c *Catalog) UnitName(itemID int) string {
	item, ok := c.items[itemID]
	if !ok {
		return ""
	}
	if unit, ok := c.units[item.UnitID]; ok {
		return unit.UnitName
	}
	return ""
}

// Recipe looks up a recipe by id
func (c *Catalog) Recipe(recipeID int) (*Recipe, bool) {
	r, ok := c.recipes[recipeID]
	return r, ok
}

// RecipeName returns the recipe's name, or "Recipe <id>" when it does not exist
func (c *Catalog) RecipeName(recipeID int) string {
	if r, ok := c.recipes[recipeID]; ok && r.RecipeName != "" {
		return r.RecipeName
	}
	return fmt.Sprintf("Recipe %d", recipeID)
}

// RecipeCount returns the number of indexed recipes
func (c *Catalog) RecipeCount() int {
	return len(c.recipes)
}
