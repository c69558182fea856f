package sqlite

import (
	"fmt"
	"time"

	"recipechain/internal/domain"
)

const timeLayout = time.RFC3339Nano

// viewRow holds the scanned columns of the views table
type viewRow struct {
	id        string
	recipeID  int
	name      string
	x, y, k   float64
	createdAt string
}

func (r *viewRow) scanArgs() []any {
	return []any{&r.id, &r.recipeID, &r.name, &r.x, &r.y, &r.k, &r.createdAt}
}

func (r *viewRow) toDomain() (*domain.SavedView, error) {
	created, err := time.Parse(timeLayout, r.createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at of view %s: %w", r.id, err)
	}
	view := &domain.SavedView{
		ID:        r.id,
		RecipeID:  r.recipeID,
		Name:      r.name,
		CreatedAt: created,
		Positions: []domain.NodePosition{},
	}
	view.Transform.X = r.x
	view.Transform.Y = r.y
	view.Transform.K = r.k
	return view, nil
}

func viewInsertArgs(view *domain.SavedView) []any {
	return []any{
		view.ID,
		view.RecipeID,
		view.Name,
		view.Transform.X,
		view.Transform.Y,
		view.Transform.K,
		view.CreatedAt.UTC().Format(timeLayout),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
