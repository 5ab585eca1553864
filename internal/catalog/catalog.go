// Package catalog holds the curated content shown in the tabbed sections:
// sample initiatives, open roles and competitions, grouped by category.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Initiative is a showcased project in the initiatives section.
type Initiative struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Progress    int      `yaml:"progress"`
	Status      string   `yaml:"status"`
	Tags        []string `yaml:"tags"`
	Members     int      `yaml:"members"`
}

// Role is an open volunteer position.
type Role struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Commitment  string   `yaml:"commitment"`
	Skills      []string `yaml:"skills"`
}

// Competition is an open challenge.
type Competition struct {
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Deadline     string `yaml:"deadline"`
	Prize        string `yaml:"prize"`
	Participants int    `yaml:"participants"`
}

// Group is one tab of a tabbed section.
type Group[T any] struct {
	Key   string `yaml:"key"`
	Items []T    `yaml:"items"`
}

// Catalog is the full set of tabbed content.
type Catalog struct {
	DisplayNames map[string]string    `yaml:"display_names"`
	Initiatives  []Group[Initiative]  `yaml:"initiatives"`
	Roles        []Group[Role]        `yaml:"roles"`
	Competitions []Group[Competition] `yaml:"competitions"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(catalogYAML)
	})
	return defaultCat, defaultErr
}

// DisplayName returns the human label for a category key, or the key itself
// when none is defined.
func (c *Catalog) DisplayName(key string) string {
	if name, ok := c.DisplayNames[key]; ok {
		return name
	}
	return key
}

// InitiativesIn returns the initiatives of category key. Unknown keys yield
// nil.
func (c *Catalog) InitiativesIn(key string) []Initiative { return find(c.Initiatives, key) }

// RolesIn returns the open roles of category key.
func (c *Catalog) RolesIn(key string) []Role { return find(c.Roles, key) }

// CompetitionsIn returns the active competitions of category key.
func (c *Catalog) CompetitionsIn(key string) []Competition { return find(c.Competitions, key) }

func find[T any](groups []Group[T], key string) []T {
	for _, g := range groups {
		if g.Key == key {
			return g.Items
		}
	}
	return nil
}

// Keys returns the category keys of groups in order.
func Keys[T any](groups []Group[T]) []string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return keys
}
