package session

import (
	"recipechain/internal/chain"
	"recipechain/internal/domain"
	"recipechain/internal/geom"
	"recipechain/internal/interaction"
	"recipechain/internal/layout"
	"recipechain/internal/render"
)

// OfflineOptions configures a one-shot render
type OfflineOptions struct {
	Layout        layout.Config
	Viewport      geom.Size
	MaxIterations int
	Seed          uint64
}

// RenderOffline lays out the chain of target until it settles (or
// MaxIterations ticks pass), fits it to the viewport and returns the frame
// together with the number of ticks run
func RenderOffline(snap *domain.Snapshot, target int, opts OfflineOptions) (*render.Scene, int) {
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = DefaultConfig().Viewport
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 300
	}

	ctrl := interaction.NewController(opts.Viewport)
	in := render.Input{
		Catalog: domain.NewCatalog(snap),
		Picker:  render.Picker(snap.Recipes),
		Target:  target,
	}
	if target == 0 {
		in.View = ctrl.Snapshot()
		return render.Build(in), 0
	}

	g := chain.NewBuilder(opts.Seed).Build(snap.Recipes, target, chain.ResolveChain(snap.Recipes, target))
	cfg := opts.Layout
	cfg.Width, cfg.Height = opts.Viewport.Width, opts.Viewport.Height
	cfg.Seed = opts.Seed
	sim := layout.New(g, cfg)
	ticks := sim.Run(opts.MaxIterations)
	sim.Stop()
	sim.Apply(g)

	ctrl.FitToScreen(render.CardBounds(g, sim))

	in.Graph = g
	in.Positions = sim
	in.View = ctrl.Snapshot()
	return render.Build(in), ticks
}
