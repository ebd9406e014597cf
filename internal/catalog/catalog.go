// Package catalog holds the static list of categorised services shown by
// every svcdeck skin. A Catalog is immutable once loaded.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultCatalog []byte

// ErrNotReady reports that the catalog source is not available yet.
var ErrNotReady = errors.New("catalog not ready")

// Descriptor describes a single service. Only URL has behavioural meaning;
// Name and Desc are display labels.
type Descriptor struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	Desc string `yaml:"desc" json:"desc"`
}

// Category is a titled, ordered group of services.
type Category struct {
	Title    string       `yaml:"title" json:"title"`
	Services []Descriptor `yaml:"services" json:"services"`
}

// Catalog is an ordered, read-only sequence of categories.
type Catalog struct {
	categories []Category
}

// Empty returns a catalog with no categories.
func Empty() *Catalog {
	return &Catalog{}
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		// default.yml is compiled in and covered by tests.
		panic(fmt.Sprintf("parsing embedded catalog: %v", err))
	}
	return c
}

// New builds a catalog from categories. The input is copied.
func New(categories []Category) *Catalog {
	return &Catalog{categories: copyCategories(categories)}
}

// Parse decodes a YAML catalog. Empty input yields an empty catalog.
func Parse(data []byte) (*Catalog, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Empty(), nil
	}

	var raw []Category
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	for i := range raw {
		for j := range raw[i].Services {
			svc := &raw[i].Services[j]
			svc.Name = strings.TrimSpace(svc.Name)
			svc.URL = strings.TrimSpace(svc.URL)
			if svc.Name == "" {
				svc.Name = svc.URL
			}
		}
	}
	return &Catalog{categories: raw}, nil
}

// LoadFile reads and parses the catalog at path. A missing file returns
// ErrNotReady so callers can keep polling.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotReady
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.categories)
}

// ServiceCount returns the total number of services across categories.
func (c *Catalog) ServiceCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, cat := range c.categories {
		n += len(cat.Services)
	}
	return n
}

// Categories returns a copy of all categories in display order.
func (c *Catalog) Categories() []Category {
	if c == nil {
		return nil
	}
	return copyCategories(c.categories)
}

// Category returns a copy of the i-th category.
func (c *Catalog) Category(i int) (Category, bool) {
	if c == nil || i < 0 || i >= len(c.categories) {
		return Category{}, false
	}
	cat := c.categories[i]
	return Category{
		Title:    cat.Title,
		Services: append([]Descriptor(nil), cat.Services...),
	}, true
}

func copyCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, cat := range in {
		out[i] = Category{
			Title:    cat.Title,
			Services: append([]Descriptor(nil), cat.Services...),
		}
	}
	return out
}
