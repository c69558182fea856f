package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"recipechain/internal/domain"
	"recipechain/internal/repository"
)

// Repository implements repository.ViewRepository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.ViewRepository = (*Repository)(nil)

// New creates a new SQLite repository. ":memory:" opens a private
// in-memory database.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dsn(dbPath string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dbPath != ":memory:" {
		pragmas += "&_pragma=journal_mode(WAL)"
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + pragmas
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS views (
		id TEXT PRIMARY KEY,
		recipe_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		transform_x REAL NOT NULL DEFAULT 0,
		transform_y REAL NOT NULL DEFAULT 0,
		transform_k REAL NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS view_positions (
		view_id TEXT NOT NULL,
		node_id TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		pinned INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (view_id, node_id),
		FOREIGN KEY (view_id) REFERENCES views(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_views_recipe ON views(recipe_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// CreateView stores a view and its positions in one transaction
func (r *Repository) CreateView(ctx context.Context, view *domain.SavedView) error {
	if view.ID == "" {
		view.ID = uuid.NewString()
	}
	if view.CreatedAt.IsZero() {
		view.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO views (id, recipe_id, name, transform_x, transform_y, transform_k, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, viewInsertArgs(view)...)
	if err != nil {
		return fmt.Errorf("failed to insert view: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO view_positions (view_id, node_id, x, y, pinned)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare position insert: %w", err)
	}
	defer stmt.Close()

	for _, pos := range view.Positions {
		if _, err := stmt.ExecContext(ctx, view.ID, pos.NodeID, pos.X, pos.Y, boolToInt(pos.Pinned)); err != nil {
			return fmt.Errorf("failed to insert position %s: %w", pos.NodeID, err)
		}
	}

	return tx.Commit()
}

// GetView loads a view with its positions
func (r *Repository) GetView(ctx context.Context, id string) (*domain.SavedView, error) {
	var row viewRow
	err := r.db.QueryRowContext(ctx, `
		SELECT id, recipe_id, name, transform_x, transform_y, transform_k, created_at
		FROM views WHERE id = ?
	`, id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("view %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query view: %w", err)
	}

	view, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	positions, err := r.positions(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Positions = positions
	return view, nil
}

// ListViews returns views newest first, without positions loaded
func (r *Repository) ListViews(ctx context.Context, recipeID int) ([]domain.SavedView, error) {
	query := `
		SELECT id, recipe_id, name, transform_x, transform_y, transform_k, created_at
		FROM views`
	var args []any
	if recipeID != 0 {
		query += ` WHERE recipe_id = ?`
		args = append(args, recipeID)
	}
	query += ` ORDER BY created_at DESC, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer rows.Close()

	views := make([]domain.SavedView, 0)
	for rows.Next() {
		var row viewRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		view, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, rows.Err()
}

// DeleteView removes a view and its positions
func (r *Repository) DeleteView(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("view %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *Repository) positions(ctx context.Context, viewID string) ([]domain.NodePosition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT node_id, x, y, pinned FROM view_positions
		WHERE view_id = ? ORDER BY node_id
	`, viewID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := make([]domain.NodePosition, 0)
	for rows.Next() {
		var (
			pos    domain.NodePosition
			pinned int
		)
		if err := rows.Scan(&pos.NodeID, &pos.X, &pos.Y, &pinned); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		pos.Pinned = pinned != 0
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

// Close closes the database
func (r *Repository) Close() error {
	return r.db.Close()
}
