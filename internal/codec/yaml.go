package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"recipechain/internal/domain"
)

// YAMLCodec handles YAML import/export. Field names follow the snake_case
// yaml tags on the domain types.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of exported bundles
func (c *YAMLCodec) ContentType() string {
	return "application/yaml"
}

// Parse imports a dataset bundle from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return normalize(&snap), nil
}

// Export writes a dataset bundle as YAML
func (c *YAMLCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
