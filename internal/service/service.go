package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"recipechain/internal/codec"
	"recipechain/internal/domain"
	"recipechain/internal/loader"
	"recipechain/internal/render"
	"recipechain/internal/repository"
	"recipechain/internal/session"
)

// ErrInvalidView is returned when a view name is empty
var ErrInvalidView = errors.New("invalid view")

// ReloadRecorder observes dataset reloads
type ReloadRecorder interface {
	RecordReload(err error, counts map[string]int)
}

// ReloadPayload is published with EventDatasetReloaded
type ReloadPayload struct {
	Revision uint64         `json:"revision"`
	Counts   map[string]int `json:"counts"`
	Source   string         `json:"source"`
	Error    string         `json:"error,omitempty"`
}

// Service provides the dataset, chain session and saved views
type Service struct {
	loader   *loader.Loader
	repo     repository.ViewRepository
	session  *session.Session
	eventBus *EventBus
	recorder ReloadRecorder
	logger   *zap.Logger

	applyMu  sync.Mutex
	mu       sync.RWMutex
	snap     *domain.Snapshot
	revision uint64
}

// New creates a service. recorder may be nil.
func New(l *loader.Loader, repo repository.ViewRepository, sess *session.Session, eventBus *EventBus, recorder ReloadRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loader:   l,
		repo:     repo,
		session:  sess,
		eventBus: eventBus,
		recorder: recorder,
		logger:   logger,
		snap:     domain.NewSnapshot(),
	}
}

// Session returns the chain session driven by this service
func (s *Service) Session() *session.Session {
	return s.session
}

// Snapshot returns the current dataset. Callers must not modify it.
func (s *Service) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Picker returns the recipe picker options for the current dataset
func (s *Service) Picker() []render.PickerOption {
	return render.Picker(s.Snapshot().Recipes)
}

// Reload reads the data directory and swaps in the result. Entities that
// fail to load are left empty; their errors are returned after the swap.
func (s *Service) Reload(ctx context.Context) error {
	return s.reload(ctx, "load")
}

// OnFileChanged is the watcher callback
func (s *Service) OnFileChanged(paths []string) {
	s.logger.Info("data files changed, reloading", zap.Strings("paths", paths))
	if err := s.reload(context.Background(), "watch"); err != nil {
		s.logger.Warn("reload after file change incomplete", zap.Error(err))
	}
}

func (s *Service) reload(ctx context.Context, source string) error {
	snap, loadErr := s.loader.Load(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := s.apply(ctx, snap, source, loadErr); err != nil {
		return err
	}
	return loadErr
}

// apply assigns the next revision, pushes the snapshot into the session
// and announces it
func (s *Service) apply(ctx context.Context, snap *domain.Snapshot, source string, loadErr error) error {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	s.mu.Lock()
	s.revision++
	snap.Revision = s.revision
	s.snap = snap
	s.mu.Unlock()

	counts := snap.Counts()
	if s.recorder != nil {
		s.recorder.RecordReload(loadErr, counts)
	}

	if err := s.session.SetSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("push dataset to session: %w", err)
	}

	payload := ReloadPayload{Revision: snap.Revision, Counts: counts, Source: source}
	if loadErr != nil {
		payload.Error = loadErr.Error()
	}
	s.eventBus.Publish(Event{Type: EventDatasetReloaded, Payload: payload})

	s.logger.Info("dataset reloaded",
		zap.Uint64("revision", snap.Revision),
		zap.String("source", source),
		zap.Int("recipes", counts[loader.EntityRecipes]),
		zap.Int("items", counts[loader.EntityItems]))
	return nil
}

// Export writes the current dataset as a bundle in the given format
func (s *Service) Export(w io.Writer, format string) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	return c.Export(s.Snapshot(), w)
}

// Import parses a bundle, writes it to the data directory and makes it the
// current dataset
func (s *Service) Import(ctx context.Context, r io.Reader, format string) (*domain.Snapshot, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}
	snap, err := c.Parse(r)
	if err != nil {
		return nil, err
	}
	if err := s.loader.Save(snap); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}
	if err := s.apply(ctx, snap, "import", nil); err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveView captures the current layout under a name and stores it
func (s *Service) SaveView(ctx context.Context, name string) (*domain.SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidView)
	}

	view, err := s.session.SaveView(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateView(ctx, view); err != nil {
		return nil, fmt.Errorf("store view: %w", err)
	}

	s.eventBus.Publish(Event{
		Type:    EventViewSaved,
		Payload: map[string]any{"id": view.ID, "recipe_id": view.RecipeID, "name": view.Name},
	})
	s.logger.Info("view saved",
		zap.String("view_id", view.ID),
		zap.Int("recipe_id", view.RecipeID),
		zap.Int("positions", len(view.Positions)))
	return view, nil
}

// ApplyView restores a stored view
func (s *Service) ApplyView(ctx context.Context, id string) (*domain.SavedView, error) {
	view, err := s.repo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.session.ApplyView(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

// ListViews returns stored views for a recipe, or all views when recipeID is 0
func (s *Service) ListViews(ctx context.Context, recipeID int) ([]domain.SavedView, error) {
	return s.repo.ListViews(ctx, recipeID)
}

// DeleteView removes a stored view
func (s *Service) DeleteView(ctx context.Context, id string) error {
	if err := s.repo.DeleteView(ctx, id); err != nil {
		return err
	}
	s.eventBus.Publish(Event{
		Type:    EventViewDeleted,
		Payload: map[string]string{"id": id},
	})
	return nil
}
