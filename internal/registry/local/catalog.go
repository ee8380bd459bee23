package local

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog describes which dataset identifiers a data home serves and where
// each identifier's files live, relative to the data home root.
type Catalog struct {
	Datasets []CatalogEntry `yaml:"datasets"`
}

type CatalogEntry struct {
	ID      string `yaml:"id"`
	Docs    string `yaml:"docs"`
	Queries string `yaml:"queries"`
	Qrels   string `yaml:"qrels"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func validate(c *Catalog) error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("catalog has no datasets")
	}
	seen := make(map[string]bool, len(c.Datasets))
	for i, d := range c.Datasets {
		if d.ID == "" {
			return fmt.Errorf("dataset at index %d has no id", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate dataset id %q", d.ID)
		}
		seen[d.ID] = true
		if d.Docs == "" {
			return fmt.Errorf("dataset %q has no docs file", d.ID)
		}
		if d.Queries == "" {
			return fmt.Errorf("dataset %q has no queries file", d.ID)
		}
		if d.Qrels == "" {
			return fmt.Errorf("dataset %q has no qrels file", d.ID)
		}
	}
	return nil
}
