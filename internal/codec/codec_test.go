package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechain/internal/domain"
)

func bundle() *domain.Snapshot {
	snap := domain.NewSnapshot()
	snap.Revision = 7
	snap.Units = []domain.Unit{{UnitID: 1, UnitName: "Piece", DefaultUnit: "pcs"}}
	snap.Items = []domain.Item{{ItemID: 2, ItemName: "Gear", UnitID: 1}}
	snap.Recipes = []domain.Recipe{{
		RecipeID:   3,
		RecipeName: "Cut Gear",
		Time:       12,
		Inputs:     []domain.ItemAmount{},
		Outputs:    []domain.ItemAmount{{ItemID: 2, Amount: 4}},
	}}
	return snap
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"", "json"},
		{"json", "json"},
		{"JSON", "json"},
		{"yaml", "yaml"},
		{"yml", "yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			c, err := ForFormat(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Format())
		})
	}

	_, err := ForFormat("csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestJSONCodec_UsesDatasetFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(bundle(), &buf))

	out := buf.String()
	assert.Contains(t, out, `"RecipeName": "Cut Gear"`)
	assert.Contains(t, out, `"version": "1.0.0"`)

	parsed, err := NewJSONCodec().Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, bundle().Recipes, parsed.Recipes)
	assert.Zero(t, parsed.Revision)
	assert.NotNil(t, parsed.Buildings)
}

func TestYAMLCodec_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLCodec().Export(bundle(), &buf))

	out := buf.String()
	assert.Contains(t, out, "recipe_name: Cut Gear")
	assert.NotContains(t, out, "revision")
}

func TestYAMLCodec_Parse(t *testing.T) {
	doc := `
items:
  - item_id: 2
    item_name: Gear
recipes:
  - recipe_id: 3
    recipe_name: Cut Gear
    time: 12
    outputs:
      - item_id: 2
        amount: 4
`
	snap, err := NewYAMLCodec().Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, domain.DataVersion, snap.Version)
	require.Len(t, snap.Recipes, 1)
	assert.Equal(t, 4.0, snap.Recipes[0].Outputs[0].Amount)
	assert.NotNil(t, snap.Units)
}

func TestParse_Errors(t *testing.T) {
	_, err := NewJSONCodec().Parse(strings.NewReader("{"))
	assert.Error(t, err)

	_, err = NewYAMLCodec().Parse(strings.NewReader("widgets: [1]\n"))
	assert.Error(t, err)
}
