package catalogstore

import (
	"fmt"
	"os"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// LoadFile reads and builds a catalog from a local JSON bundle file.
func LoadFile(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalogstore: read %s: %w", path, err)
	}
	b, err := ParseBundle(data)
	if err != nil {
		return nil, err
	}
	return Build(b), nil
}
