package domain

// Unit is a measurement unit used to label item quantities
type Unit struct {
	UnitID          int    `json:"UnitID" yaml:"unit_id"`
	UnitName        string `json:"UnitName" yaml:"unit_name"`
	UnitDescription string `json:"UnitDescription" yaml:"unit_description,omitempty"`
	DefaultUnit     string `json:"DefaultUnit" yaml:"default_unit,omitempty"`
}

// Item is a good that recipes consume or produce
type Item struct {
	ItemID          int    `json:"ItemID" yaml:"item_id"`
	ItemName        string `json:"ItemName" yaml:"item_name"`
	ItemDescription string `json:"ItemDescription" yaml:"item_description,omitempty"`
	UnitID          int    `json:"UnitID" yaml:"unit_id"`
	IsBase          bool   `json:"IsBase" yaml:"is_base,omitempty"`
}

// ItemAmount is a quantity of one item. It is used for recipe inputs,
// recipe outputs and building construction costs.
type ItemAmount struct {
	ItemID int     `json:"ItemID" yaml:"item_id"`
	Amount float64 `json:"Amount" yaml:"amount"`
}

// Building is the place a recipe runs at
type Building struct {
	BuildingID          int          `json:"BuildingID" yaml:"building_id"`
	BuildingName        string       `json:"BuildingName" yaml:"building_name"`
	BuildingDescription string       `json:"BuildingDescription" yaml:"building_description,omitempty"`
	CrewRequirement     int          `json:"CrewRequirement" yaml:"crew_requirement,omitempty"`
	ConstructionCosts   []ItemAmount `json:"ConstructionCosts" yaml:"construction_costs,omitempty"`
}

// Recipe converts input items into output items at a building.
// Time is in seconds, Power in Wh and Water in L.
type Recipe struct {
	RecipeID          int          `json:"RecipeID" yaml:"recipe_id"`
	RecipeName        string       `json:"RecipeName" yaml:"recipe_name"`
	RecipeDescription string       `json:"RecipeDescription" yaml:"recipe_description,omitempty"`
	Power             float64      `json:"Power" yaml:"power"`
	Water             float64      `json:"Water" yaml:"water"`
	Time              float64      `json:"Time" yaml:"time"`
	BuildingID        int          `json:"BuildingID" yaml:"building_id"`
	Inputs            []ItemAmount `json:"Inputs" yaml:"inputs"`
	Outputs           []ItemAmount `json:"Outputs" yaml:"outputs"`
}

// Produces reports whether any output of the recipe is the given item
func (r *Recipe) Produces(itemID int) bool {
	for _, out := range r.Outputs {
		if out.ItemID == itemID {
			return true
		}
	}
	return false
}

// Consumes reports whether any input of the recipe is the given item
func (r *Recipe) Consumes(itemID int) bool {
	for _, in := range r.Inputs {
		if in.ItemID == itemID {
			return true
		}
	}
	return false
}
