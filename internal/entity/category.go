package entity

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description" yaml:"description"`
}

//go:embed categories.yaml
var categoriesYAML []byte

type catalogueFile struct {
	Categories  []Category        `yaml:"categories"`
	Home        []string          `yaml:"home"`
	LegacyNames map[string]string `yaml:"legacy_names"`
}

// Catalogue is the fixed list of site categories.
type Catalogue struct {
	categories  []Category
	home        []string
	legacyNames map[string]string
}

func ParseCatalogue(data []byte) (*Catalogue, error) {
	var f catalogueFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse category catalogue: %w", err)
	}
	if len(f.Categories) == 0 {
		return nil, fmt.Errorf("category catalogue is empty")
	}
	legacy := make(map[string]string, len(f.LegacyNames))
	for from, to := range f.LegacyNames {
		legacy[strings.ToLower(from)] = to
	}
	return &Catalogue{categories: f.Categories, home: f.Home, legacyNames: legacy}, nil
}

var defaultCatalogue *Catalogue

func init() {
	c, err := ParseCatalogue(categoriesYAML)
	if err != nil {
		panic(err)
	}
	defaultCatalogue = c
}

// Categories returns the embedded catalogue.
func Categories() *Catalogue { return defaultCatalogue }

func (c *Catalogue) All() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalogue) BySlug(slug string) (Category, bool) {
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Slug, slug) {
			return cat, true
		}
	}
	return Category{}, false
}

func (c *Catalogue) ByID(id string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

func (c *Catalogue) ByName(name string) (Category, bool) {
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}

func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}

// HomePage returns the categories highlighted on the home page, in catalogue order.
func (c *Catalogue) HomePage() []Category {
	var out []Category
	for _, cat := range c.categories {
		for _, id := range c.home {
			if cat.ID == id {
				out = append(out, cat)
				break
			}
		}
	}
	return out
}

// NormalizeName maps historical category labels onto current names, ignoring case.
func (c *Catalogue) NormalizeName(name string) string {
	if mapped, ok := c.legacyNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return mapped
	}
	return name
}

// SameCategory compares two labels case-insensitively after legacy normalization.
func (c *Catalogue) SameCategory(a, b string) bool {
	return strings.EqualFold(c.NormalizeName(a), c.NormalizeName(b))
}
