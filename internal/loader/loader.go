// Package loader reads and writes the recipe dataset as one JSON file per
// entity type under a data directory:
//
//	<dir>/units/units.json
//	<dir>/items/items.json
//	<dir>/buildings/buildings.json
//	<dir>/recipes/recipes.json
//
// A missing file loads as an empty collection. A file that cannot be parsed
// is reported as an error for that entity while the others still load.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"recipechain/internal/domain"
)

// Entity names, which double as directory and file base names
const (
	EntityUnits     = "units"
	EntityItems     = "items"
	EntityBuildings = "buildings"
	EntityRecipes   = "recipes"
)

const fileExtension = ".json"

// Entities lists every entity in load order
var Entities = []string{EntityUnits, EntityItems, EntityBuildings, EntityRecipes}

// ErrUnknownEntity is returned for entity names outside Entities
var ErrUnknownEntity = errors.New("unknown entity")

// EntityError describes a failure to read or decode one entity file
type EntityError struct {
	Entity string
	Path   string
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Entity, e.Path, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// Path returns the file holding the given entity under dir
func Path(dir, entity string) string {
	return filepath.Join(dir, entity, entity+fileExtension)
}

// Paths returns the files of every entity under dir
func Paths(dir string) []string {
	paths := make([]string, 0, len(Entities))
	for _, entity := range Entities {
		paths = append(paths, Path(dir, entity))
	}
	return paths
}

// Loader reads and writes a data directory
type Loader struct {
	dir    string
	logger *zap.Logger
}

// New creates a loader rooted at dir
func New(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger}
}

// Dir returns the data directory
func (l *Loader) Dir() string {
	return l.dir
}

// Paths returns the entity files watched for changes
func (l *Loader) Paths() []string {
	return Paths(l.dir)
}

// EnsureDirs creates every entity directory so they can be watched before
// the first save
func (l *Loader) EnsureDirs() error {
	for _, entity := range Entities {
		if err := os.MkdirAll(filepath.Join(l.dir, entity), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", entity, err)
		}
	}
	return nil
}

// Load reads all four entity files. The returned snapshot is never nil:
// entities that failed to load are left empty and their errors are joined
// into the returned error.
func (l *Loader) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot()
	targets := map[string]any{
		EntityUnits:     &snap.Units,
		EntityItems:     &snap.Items,
		EntityBuildings: &snap.Buildings,
		EntityRecipes:   &snap.Recipes,
	}

	var errs []error
	for _, entity := range Entities {
		if err := ctx.Err(); err != nil {
			return snap, err
		}
		if err := l.LoadEntity(entity, targets[entity]); err != nil {
			l.logger.Warn("failed to load entity",
				zap.String("entity", entity),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	ensureSlices(snap)

	l.logger.Debug("dataset loaded",
		zap.String("dir", l.dir),
		zap.Int("units", len(snap.Units)),
		zap.Int("items", len(snap.Items)),
		zap.Int("buildings", len(snap.Buildings)),
		zap.Int("recipes", len(snap.Recipes)))

	return snap, errors.Join(errs...)
}

// LoadEntity decodes a single entity file into dst. A missing file leaves
// dst untouched.
func (l *Loader) LoadEntity(entity string, dst any) error {
	if !known(entity) {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}

	path := Path(l.dir, entity)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("entity file not found, using empty collection",
			zap.String("entity", entity),
			zap.String("path", path))
		return nil
	}
	if err != nil {
		return &EntityError{Entity: entity, Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &EntityError{Entity: entity, Path: path, Err: err}
	}
	return nil
}

// Save writes all four entity files, creating directories as needed.
// Each file is replaced atomically.
func (l *Loader) Save(snap *domain.Snapshot) error {
	if snap == nil {
		snap = domain.NewSnapshot()
	}
	values := map[string]any{
		EntityUnits:     nonNil(snap.Units),
		EntityItems:     nonNil(snap.Items),
		EntityBuildings: nonNil(snap.Buildings),
		EntityRecipes:   nonNil(snap.Recipes),
	}
	for _, entity := range Entities {
		if err := l.SaveEntity(entity, values[entity]); err != nil {
			return err
		}
	}
	l.logger.Info("dataset saved", zap.String("dir", l.dir))
	return nil
}

// SaveEntity writes one entity file with 2-space indentation
func (l *Loader) SaveEntity(entity string, v any) error {
	if !known(entity) {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", entity, err)
	}
	path := Path(l.dir, entity)
	if err := writeAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", entity, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func known(entity string) bool {
	for _, e := range Entities {
		if e == entity {
			return true
		}
	}
	return false
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ensureSlices replaces nil collections left by a "null" file
func ensureSlices(snap *domain.Snapshot) {
	snap.Units = nonNil(snap.Units)
	snap.Items = nonNil(snap.Items)
	snap.Buildings = nonNil(snap.Buildings)
	snap.Recipes = nonNil(snap.Recipes)
}
