package catalog

import (
	_ "embed"
	"fmt"
)

//go:embed rituals.yaml
var ritualsYAML []byte

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	c, err := Load(ritualsYAML)
	if err != nil {
		return nil, fmt.Errorf("load embedded catalog: %w", err)
	}
	return c, nil
}
