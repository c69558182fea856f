// Package session owns the live state of one chain view: the selected
// recipe, its graph and simulation, and the interaction controller. All of
// it is confined to the goroutine running Session.Run; every other method
// hands a closure to that goroutine and waits for it.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"recipechain/internal/chain"
	"recipechain/internal/domain"
	"recipechain/internal/geom"
	"recipechain/internal/interaction"
	"recipechain/internal/layout"
	"recipechain/internal/render"
)

var (
	// ErrClosed is returned once Run has exited
	ErrClosed = errors.New("session closed")
	// ErrUnknownViewOp is returned by View for an unsupported operation
	ErrUnknownViewOp = errors.New("unknown view operation")
	// ErrNoTarget is returned by SaveView when no recipe is selected
	ErrNoTarget = errors.New("no recipe selected")
)

// View operations accepted by Session.View
const (
	OpZoomIn  = "zoom_in"
	OpZoomOut = "zoom_out"
	OpReset   = "reset"
	OpFit     = "fit"
)

// Frame reasons
const (
	ReasonTick        = "tick"
	ReasonInteraction = "interaction"
	ReasonRebuild     = "rebuild"
	ReasonView        = "view"
	ReasonDataset     = "dataset"
)

// Config configures a session
type Config struct {
	Layout        layout.Config
	FrameInterval time.Duration
	Viewport      geom.Size
	CacheSize     int
}

// DefaultConfig returns a balanced layout at roughly 60 frames per second
func DefaultConfig() Config {
	return Config{
		Layout:        layout.DefaultConfig(),
		FrameInterval: 16 * time.Millisecond,
		Viewport:      geom.Size{Width: 1000, Height: 600},
		CacheSize:     128,
	}
}

// Frame is published after every simulation tick and every state change
type Frame struct {
	Seq              uint64             `json:"seq"`
	Reason           string             `json:"reason"`
	SelectionChanged bool               `json:"selection_changed,omitempty"`
	Selection        interaction.Target `json:"selection"`
	Scene            *render.Scene      `json:"scene"`
}

// Stats are counters describing session activity
type Stats struct {
	LayoutBuilds uint64 `json:"layout_builds"`
	Ticks        uint64 `json:"ticks"`
	Frames       uint64 `json:"frames"`
	CacheHits    uint64 `json:"cache_hits"`
	CacheMisses  uint64 `json:"cache_misses"`
}

// Session is a single chain view driven by one goroutine
type Session struct {
	logger   *zap.Logger
	cfg      Config
	resolver *chain.CachedResolver
	onFrame  func(Frame)

	cmds    chan func()
	done    chan struct{}
	running atomic.Bool

	layoutBuilds atomic.Uint64
	ticks        atomic.Uint64
	frames       atomic.Uint64
	latest       atomic.Pointer[Frame]

	// owned by the Run goroutine
	snap    *domain.Snapshot
	catalog *domain.Catalog
	picker  []render.PickerOption
	target  int
	graph   *domain.Graph
	sim     *layout.Simulation
	ctrl    *interaction.Controller
	ticker  *time.Ticker
}

// New creates a session. onFrame may be nil; it is called on the session
// goroutine and must not block.
func New(cfg Config, onFrame func(Frame), logger *zap.Logger) (*Session, error) {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultConfig().FrameInterval
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		cfg.Viewport = DefaultConfig().Viewport
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	resolver, err := chain.NewCachedResolver(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	if onFrame == nil {
		onFrame = func(Frame) {}
	}

	s := &Session{
		logger:   logger,
		cfg:      cfg,
		resolver: resolver,
		onFrame:  onFrame,
		cmds:     make(chan func()),
		done:     make(chan struct{}),
		snap:     domain.NewSnapshot(),
		ctrl:     interaction.NewController(cfg.Viewport),
	}
	s.catalog = domain.NewCatalog(s.snap)
	return s, nil
}

// Run processes commands and simulation ticks until ctx is cancelled.
// The simulation is stopped on exit.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("session already running")
	}
	defer close(s.done)
	defer s.stopSimulation()

	s.publish(ReasonDataset, 0)
	for {
		var tick <-chan time.Time
		if s.ticker != nil {
			tick = s.ticker.C
		}

		select {
		case <-ctx.Done():
			s.logger.Debug("session stopped")
			return nil
		case fn := <-s.cmds:
			fn()
		case <-tick:
			s.step()
		}
		s.syncTicker()
	}
}

// Done is closed when Run exits
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	cmd := func() {
		defer close(finished)
		fn()
	}

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetSnapshot swaps in a new dataset. The current chain is rebuilt only
// when the recipes differ; changes to units, items or buildings just
// relabel the existing layout.
func (s *Session) SetSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	return s.do(ctx, func() {
		prev := s.snap
		s.snap = snap
		if snap.Revision <= prev.Revision {
			// cached chains are keyed by revision
			s.resolver.Purge()
		}
		s.catalog = domain.NewCatalog(snap)
		s.picker = render.Picker(snap.Recipes)
		if s.target != 0 && !sameRecipes(prev.Recipes, snap.Recipes) {
			s.rebuild()
			s.pruneTargets()
		}
		s.publish(ReasonDataset, 0)
	})
}

// sameRecipes compares recipe collections, treating nil and empty
// input/output lists as equal
func sameRecipes(a, b []domain.Recipe) bool {
	return slices.EqualFunc(a, b, func(x, y domain.Recipe) bool {
		if !slices.Equal(x.Inputs, y.Inputs) || !slices.Equal(x.Outputs, y.Outputs) {
			return false
		}
		x.Inputs, x.Outputs = nil, nil
		y.Inputs, y.Outputs = nil, nil
		return reflect.DeepEqual(x, y)
	})
}

// SelectRecipe changes the target recipe. Zero clears the selection.
// Selecting the current target again is a no-op.
func (s *Session) SelectRecipe(ctx context.Context, recipeID int) error {
	return s.do(ctx, func() {
		s.selectRecipe(recipeID)
	})
}

func (s *Session) selectRecipe(recipeID int) {
	if recipeID == s.target {
		return
	}
	s.target = recipeID
	ch := s.ctrl.Reset()
	if recipeID == 0 {
		s.stopSimulation()
		s.graph = nil
		s.ctrl.Attach(nil, nil)
	} else {
		s.rebuild()
	}
	s.publish(ReasonRebuild, ch)
}

// Target returns the selected recipe id, zero when none
func (s *Session) Target(ctx context.Context) (int, error) {
	var target int
	err := s.do(ctx, func() { target = s.target })
	return target, err
}

// HandleEvent feeds one pointer or gesture event to the controller
func (s *Session) HandleEvent(ctx context.Context, ev interaction.Event) (interaction.Change, error) {
	var ch interaction.Change
	err := s.do(ctx, func() {
		ch = s.ctrl.Handle(ev)
		if ch != 0 {
			s.publish(ReasonInteraction, ch)
		}
	})
	return ch, err
}

// SelectNode selects a node of the current graph
func (s *Session) SelectNode(ctx context.Context, id string) error {
	return s.interact(ctx, func() interaction.Change { return s.ctrl.SelectNode(id) })
}

// SelectEdge selects an edge of the current graph
func (s *Session) SelectEdge(ctx context.Context, id string) error {
	return s.interact(ctx, func() interaction.Change { return s.ctrl.SelectEdge(id) })
}

// ClearSelection drops the node or edge selection
func (s *Session) ClearSelection(ctx context.Context) error {
	return s.interact(ctx, s.ctrl.ClearSelection)
}

func (s *Session) interact(ctx context.Context, fn func() interaction.Change) error {
	return s.do(ctx, func() {
		if ch := fn(); ch != 0 {
			s.publish(ReasonInteraction, ch)
		}
	})
}

// View applies a view control: zoom_in, zoom_out, reset or fit
func (s *Session) View(ctx context.Context, op string) error {
	var opErr error
	err := s.do(ctx, func() {
		var ch interaction.Change
		switch op {
		case OpZoomIn:
			ch = s.ctrl.ZoomIn()
		case OpZoomOut:
			ch = s.ctrl.ZoomOut()
		case OpReset:
			ch = s.ctrl.ResetView()
		case OpFit:
			ch = s.ctrl.FitToScreen(render.CardBounds(s.graph, s.positions()))
		default:
			opErr = fmt.Errorf("%w: %q", ErrUnknownViewOp, op)
			return
		}
		if ch != 0 {
			s.publish(ReasonView, ch)
		}
	})
	if err != nil {
		return err
	}
	return opErr
}

// Resize changes the viewport and recentres the simulation
func (s *Session) Resize(ctx context.Context, size geom.Size) error {
	return s.do(ctx, func() {
		if ch := s.ctrl.Resize(size); ch == 0 {
			return
		}
		s.cfg.Viewport = size
		s.cfg.Layout.Width, s.cfg.Layout.Height = size.Width, size.Height
		if s.sim != nil {
			s.sim.Resize(size.Width, size.Height)
		}
		s.publish(ReasonView, interaction.ChangeView)
	})
}

// Scene builds the current frame
func (s *Session) Scene(ctx context.Context) (*render.Scene, error) {
	var scene *render.Scene
	err := s.do(ctx, func() { scene = s.scene() })
	return scene, err
}

// Latest returns the most recently published frame without waiting for
// the session goroutine. It is nil before Run starts.
func (s *Session) Latest() *Frame {
	return s.latest.Load()
}

// SaveView captures the view transform and node positions of the current chain
func (s *Session) SaveView(ctx context.Context, name string) (*domain.SavedView, error) {
	var view *domain.SavedView
	err := s.do(ctx, func() {
		if s.target == 0 {
			return
		}
		view = &domain.SavedView{
			RecipeID:  s.target,
			Name:      name,
			Transform: s.ctrl.Transform(),
			Positions: make([]domain.NodePosition, 0),
			CreatedAt: time.Now().UTC(),
		}
		if s.sim != nil {
			view.Positions = s.sim.Positions()
		}
	})
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, ErrNoTarget
	}
	return view, nil
}

// ApplyView restores a saved view, switching to its recipe if needed.
// Positions of nodes no longer in the chain are ignored.
func (s *Session) ApplyView(ctx context.Context, view *domain.SavedView) error {
	return s.do(ctx, func() {
		s.selectRecipe(view.RecipeID)
		if s.sim != nil {
			for _, p := range view.Positions {
				if p.Pinned {
					s.sim.Pin(p.NodeID, geom.Pt(p.X, p.Y))
				} else {
					s.sim.SetPosition(p.NodeID, geom.Pt(p.X, p.Y))
				}
			}
		}
		s.ctrl.SetTransform(view.Transform)
		s.publish(ReasonView, interaction.ChangeView|interaction.ChangeLayout)
	})
}

// Stats returns activity counters. It is safe to call at any time.
func (s *Session) Stats() Stats {
	hits, misses := s.resolver.Stats()
	return Stats{
		LayoutBuilds: s.layoutBuilds.Load(),
		Ticks:        s.ticks.Load(),
		Frames:       s.frames.Load(),
		CacheHits:    hits,
		CacheMisses:  misses,
	}
}

func (s *Session) rebuild() {
	s.stopSimulation()

	ids := s.resolver.Resolve(s.snap, s.target)
	seed := s.cfg.Layout.Seed
	if seed == 0 {
		seed = rand.Uint64()
	} else {
		seed += s.layoutBuilds.Load()
	}
	s.graph = chain.NewBuilder(seed).Build(s.snap.Recipes, s.target, ids)

	cfg := s.cfg.Layout
	cfg.Width, cfg.Height = s.cfg.Viewport.Width, s.cfg.Viewport.Height
	cfg.Seed = seed
	s.sim = layout.New(s.graph, cfg)
	s.ctrl.Attach(s.sim, render.NewHitTester(s.graph, s.sim))
	s.layoutBuilds.Add(1)

	s.logger.Debug("chain rebuilt",
		zap.Int("recipe_id", s.target),
		zap.Int("nodes", len(s.graph.Nodes)),
		zap.Int("edges", len(s.graph.Edges)),
		zap.Uint64("revision", s.snap.Revision),
	)
}

// pruneTargets drops hover and selection that no longer exist after a rebuild
func (s *Session) pruneTargets() {
	if t := s.ctrl.Selection(); !s.exists(t) {
		s.ctrl.ClearSelection()
	}
	if t := s.ctrl.Hover(); !s.exists(t) {
		s.ctrl.Handle(interaction.Event{Kind: interaction.PointerLeave})
	}
}

func (s *Session) exists(t interaction.Target) bool {
	switch t.Kind {
	case interaction.TargetNode:
		_, ok := s.graph.Node(t.ID)
		return ok
	case interaction.TargetEdge:
		_, ok := s.graph.Edge(t.ID)
		return ok
	}
	return true
}

func (s *Session) stopSimulation() {
	if s.sim != nil {
		s.sim.Stop()
	}
	s.sim = nil
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// syncTicker runs the frame ticker only while the simulation is active
func (s *Session) syncTicker() {
	active := s.sim != nil && s.sim.Active()
	switch {
	case active && s.ticker == nil:
		s.ticker = time.NewTicker(s.cfg.FrameInterval)
	case !active && s.ticker != nil:
		s.ticker.Stop()
		s.ticker = nil
	}
}

func (s *Session) step() {
	if s.sim == nil {
		return
	}
	s.sim.Step()
	s.ticks.Add(1)
	s.publish(ReasonTick, interaction.ChangeLayout)
}

func (s *Session) scene() *render.Scene {
	if s.graph != nil && s.sim != nil {
		s.sim.Apply(s.graph)
	}
	return render.Build(render.Input{
		Catalog:   s.catalog,
		Picker:    s.picker,
		Target:    s.target,
		Graph:     s.graph,
		Positions: s.positions(),
		View:      s.ctrl.Snapshot(),
	})
}

func (s *Session) positions() render.Positioner {
	if s.sim == nil {
		return nil
	}
	return s.sim
}

func (s *Session) publish(reason string, ch interaction.Change) {
	f := &Frame{
		Seq:              s.frames.Add(1),
		Reason:           reason,
		SelectionChanged: ch.Has(interaction.ChangeSelection),
		Selection:        s.ctrl.Selection(),
		Scene:            s.scene(),
	}
	s.latest.Store(f)
	s.onFrame(*f)
}
