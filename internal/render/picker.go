package render

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"recipechain/internal/domain"
)

// PickerPlaceholder is the label of the empty picker option
const PickerPlaceholder = "Select a recipe to visualize"

// PickerOption is one entry of the recipe picker
type PickerOption struct {
	RecipeID int    `json:"recipe_id"`
	Name     string `json:"name"`
}

// SortPicker lists recipes ordered by name using the collation rules of
// tag. Recipes with equal names keep their dataset order.
func SortPicker(recipes []domain.Recipe, tag language.Tag) []PickerOption {
	opts := make([]PickerOption, len(recipes))
	for i, r := range recipes {
		opts[i] = PickerOption{RecipeID: r.RecipeID, Name: r.RecipeName}
	}
	c := collate.New(tag)
	sort.SliceStable(opts, func(i, j int) bool {
		return c.CompareString(opts[i].Name, opts[j].Name) < 0
	})
	return opts
}

// Picker lists recipes in English collation order
func Picker(recipes []domain.Recipe) []PickerOption {
	return SortPicker(recipes, language.English)
}
