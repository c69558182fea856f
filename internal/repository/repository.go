package repository

import (
	"context"
	"errors"

	"recipechain/internal/domain"
)

// ErrNotFound is returned when a saved view does not exist
var ErrNotFound = errors.New("not found")

// ViewRepository persists saved views
type ViewRepository interface {
	// CreateView stores a view, assigning ID and CreatedAt when unset
	CreateView(ctx context.Context, view *domain.SavedView) error
	GetView(ctx context.Context, id string) (*domain.SavedView, error)
	// ListViews returns the views of one recipe, or of every recipe when
	// recipeID is 0, newest first
	ListViews(ctx context.Context, recipeID int) ([]domain.SavedView, error)
	DeleteView(ctx context.Context, id string) error

	// Close releases resources
	Close() error
}
