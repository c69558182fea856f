// Package codec imports and exports whole datasets as single bundle
// documents in JSON or YAML.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"recipechain/internal/domain"
)

// ErrUnsupportedFormat is returned by ForFormat for unknown formats
var ErrUnsupportedFormat = errors.New("unsupported format")

// Importer parses a dataset bundle
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter writes a dataset bundle
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
	ContentType() string
}

// Formats lists the supported format identifiers
func Formats() []string {
	return []string{"json", "yaml"}
}

// ForFormat returns the codec for a format identifier. The empty string
// selects JSON; "yml" is accepted as an alias for YAML.
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// normalize fills the fields a bundle may omit
func normalize(snap *domain.Snapshot) *domain.Snapshot {
	if snap.Version == "" {
		snap.Version = domain.DataVersion
	}
	if snap.Units == nil {
		snap.Units = []domain.Unit{}
	}
	if snap.Items == nil {
		snap.Items = []domain.Item{}
	}
	if snap.Buildings == nil {
		snap.Buildings = []domain.Building{}
	}
	if snap.Recipes == nil {
		snap.Recipes = []domain.Recipe{}
	}
	snap.Revision = 0
	return snap
}
