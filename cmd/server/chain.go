package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipechain/internal/chain"
	"recipechain/internal/domain"
	"recipechain/internal/format"
)

func chainCmd(flags *globalFlags) *cobra.Command {
	var recipeID int

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "List the upstream chain of a recipe and its item flows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.load()
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			g := chain.BuildGraph(snap.Recipes, recipeID, chain.ResolveChain(snap.Recipes, recipeID))
			printChain(cmd.OutOrStdout(), g, domain.NewCatalog(snap))
			return nil
		},
	}

	cmd.Flags().IntVar(&recipeID, "recipe", 0, "target recipe id")
	_ = cmd.MarkFlagRequired("recipe")
	return cmd
}

func printChain(w io.Writer, g *domain.Graph, cat *domain.Catalog) {
	if g.IsEmpty() {
		fmt.Fprintln(w, subtle.Sprint("  No recipe selected."))
		return
	}

	fmt.Fprintf(w, "\n  %s %s\n\n", brand.Sprint("Chain for"), cat.RecipeName(g.Target))

	fmt.Fprintln(w, subtle.Sprintf("  %d recipes", len(g.Nodes)))
	for _, n := range g.Nodes {
		marker := "•"
		if n.ID == domain.NodeID(g.Target) {
			marker = good.Sprint("★")
		}
		if n.Placeholder {
			fmt.Fprintf(w, "  %s %s %s\n", marker, n.Recipe.RecipeName, bad.Sprint("(missing)"))
			continue
		}

		details := []string{format.Duration(n.Recipe.Time)}
		if n.Recipe.Power != 0 {
			details = append(details, format.NormalizeSI(n.Recipe.Power, "Wh"))
		}
		if n.Recipe.Water != 0 {
			details = append(details, format.NormalizeSI(n.Recipe.Water, "L"))
		}
		if n.Recipe.BuildingID != 0 {
			details = append(details, cat.BuildingName(n.Recipe.BuildingID))
		}
		fmt.Fprintf(w, "  %s %s  %s\n", marker, n.Recipe.RecipeName, subtle.Sprint(strings.Join(details, " · ")))
	}

	if len(g.Edges) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, subtle.Sprintf("  %d flows", len(g.Edges)))
	for _, e := range g.Edges {
		fmt.Fprintf(w, "  %s %s %s  %s %s\n",
			nodeName(g, e.Source),
			warn.Sprint("→"),
			nodeName(g, e.Target),
			strings.TrimSpace(strconv.FormatFloat(e.Amount, 'f', -1, 64)+" "+cat.UnitName(e.ItemID)),
			cat.ItemName(e.ItemID))
	}
}

func nodeName(g *domain.Graph, id string) string {
	if n, ok := g.Node(id); ok {
		return n.Recipe.RecipeName
	}
	return "Recipe " + id
}
