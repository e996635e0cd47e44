package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Products   []Product  `yaml:"products"`
	Categories []Category `yaml:"categories"`
}

// LoadFile reads a YAML catalog. Product IDs must be unique and non-empty.
func LoadFile(path string) (*MemStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*MemStore, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Products))
	for i, p := range f.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product #%d: missing id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("product %q: duplicate id", p.ID)
		}
		if p.PriceCents < 0 {
			return nil, fmt.Errorf("product %q: negative price", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return NewMemStore(f.Products, f.Categories), nil
}
