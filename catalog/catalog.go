/*
Package catalog loads the static reference catalog of product models and
accessories the seeder draws from.

PURPOSE:
  Seeded projects reference a real-looking product model and optionally
  one accessory that fits that model. The catalog is a small YAML file
  with a many-to-many model<->accessory association; a default catalog
  is embedded so a fresh checkout works without extra files.

FORMAT (YAML):
  models:
    - id: model-aurora-120
      name: Aurora 120
  accessories:
    - id: acc-remote
      name: Radio Remote
  model_accessories:
    - model: model-aurora-120
      accessories: [acc-remote]

ERRORS:
  A missing file or a catalog without models is a configuration error;
  the seeder rejects it before writing any row.
*/
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var defaultCatalog []byte

// ErrEmptyCatalog is returned when the catalog contains no models.
var ErrEmptyCatalog = errors.New("reference catalog contains no product models")

// Model is one product model row.
type Model struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Accessory is one accessory row.
type Accessory struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Catalog is the loaded reference data.
type Catalog struct {
	Models      []Model
	Accessories []Accessory

	byAccessory map[string]Accessory
	byModel     map[string][]string
}

type catalogFile struct {
	Models           []Model     `yaml:"models"`
	Accessories      []Accessory `yaml:"accessories"`
	ModelAccessories []struct {
		Model       string   `yaml:"model"`
		Accessories []string `yaml:"accessories"`
	} `yaml:"model_accessories"`
}

// Load reads a catalog from path, or the embedded default catalog when
// path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read reference catalog: %w", err)
		}
	}
	return parse(data)
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse reference catalog: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		Models:      file.Models,
		Accessories: file.Accessories,
		byAccessory: make(map[string]Accessory, len(file.Accessories)),
		byModel:     make(map[string][]string, len(file.Models)),
	}
	for _, a := range file.Accessories {
		c.byAccessory[a.ID] = a
	}
	for _, link := range file.ModelAccessories {
		c.byModel[link.Model] = append(c.byModel[link.Model], link.Accessories...)
	}
	return c, nil
}

// AccessoriesFor returns the accessories associated with a model, in
// catalog order. The list is empty for models without associations.
func (c *Catalog) AccessoriesFor(modelID string) []Accessory {
	ids := c.byModel[modelID]
	out := make([]Accessory, 0, len(ids))
	for _, id := range ids {
		if a, ok := c.byAccessory[id]; ok {
			out = append(out, a)
		}
	}
	return out
}
