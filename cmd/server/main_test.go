package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipechain/internal/config"
	"recipechain/internal/domain"
	"recipechain/internal/loader"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Setenv("XDG_CONFIG_HOME", "")
	color.NoColor = true

	snap := domain.NewSnapshot()
	snap.Units = []domain.Unit{{UnitID: 1, UnitName: "Kilogram", DefaultUnit: "kg"}}
	snap.Items = []domain.Item{{ItemID: 10, ItemName: "Ore", UnitID: 1}, {ItemID: 11, ItemName: "Plate", UnitID: 1}}
	snap.Buildings = []domain.Building{{BuildingID: 3, BuildingName: "Smelter"}}
	snap.Recipes = []domain.Recipe{
		{RecipeID: 1, RecipeName: "Smelt", Time: 90, Power: 1500, BuildingID: 3,
			Inputs:  []domain.ItemAmount{{ItemID: 10, Amount: 2}},
			Outputs: []domain.ItemAmount{{ItemID: 11, Amount: 1}}},
		{RecipeID: 2, RecipeName: "Mine", Time: 10, Outputs: []domain.ItemAmount{{ItemID: 10, Amount: 2}}},
	}
	data := filepath.Join(dir, "data")
	require.NoError(t, loader.New(data, zap.NewNop()).Save(snap))
	return data
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestChainCommand(t *testing.T) {
	data := writeDataset(t)

	out, err := run(t, "chain", "--data", data, "--recipe", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Chain for Smelt")
	assert.Contains(t, out, "2 recipes")
	assert.Contains(t, out, "1m 30s · 1.5 kWh · Smelter")
	assert.Contains(t, out, "Mine → Smelt  2 Kilogram Ore")
}

func TestChainCommand_MissingRecipe(t *testing.T) {
	data := writeDataset(t)

	out, err := run(t, "chain", "--data", data, "--recipe", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Recipe 42")
	assert.Contains(t, out, "(missing)")
}

func TestRenderCommand(t *testing.T) {
	data := writeDataset(t)
	target := filepath.Join(t.TempDir(), "chain.svg")

	_, err := run(t, "render", "--data", data, "--recipe", "1", "--out", target, "--iterations", "50", "--seed", "9")
	require.NoError(t, err)

	svg, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(svg), "<svg"))
	assert.Contains(t, string(svg), "Smelt")
	assert.Contains(t, string(svg), `data-node="2"`)
}

func TestRenderCommand_Deterministic(t *testing.T) {
	data := writeDataset(t)

	first, err := run(t, "render", "--data", data, "--recipe", "1", "--seed", "4")
	require.NoError(t, err)
	second, err := run(t, "render", "--data", data, "--recipe", "1", "--seed", "4")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderCommand_RequiresRecipe(t *testing.T) {
	writeDataset(t)
	_, err := run(t, "render")
	assert.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	data := writeDataset(t)
	dest := filepath.Join(t.TempDir(), "recipechain.toml")

	out, err := run(t, "config", "init", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+dest)

	_, err = run(t, "config", "init", "--out", dest)
	assert.ErrorContains(t, err, "already exists")

	cfg, _, err := config.LoadFromPath(dest)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Server.Addr, cfg.Server.Addr)

	out, err = run(t, "config", "show", "--config", dest, "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "from "+dest)
	assert.Contains(t, out, "Data: "+data)
}

func TestConfigPath(t *testing.T) {
	dir := filepath.Dir(writeDataset(t))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("version: 1\n"), 0644))

	out, err := run(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "* "+filepath.Join(dir, config.ConfigFileName))
	assert.Contains(t, out, "  "+filepath.Join(dir, config.TOMLConfigFileName))
}
