// Package catalog loads the restaurant menu: sections by category and the
// customization flags of every dish.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jcmexdev/menu-cart/internal/cart-service/core/domain"
)

// CategoryAll selects every section.
const CategoryAll = "all"

//go:embed menu.yaml
var defaultMenu []byte

type Item struct {
	ID               string `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	Description      string `yaml:"description,omitempty" json:"description,omitempty"`
	Price            int64  `yaml:"price" json:"price"`
	CoconutSurcharge int64  `yaml:"coconut_surcharge,omitempty" json:"coconut_surcharge,omitempty"`
	NoRice           bool   `yaml:"no_rice,omitempty" json:"no_rice,omitempty"`
	NoStyle          bool   `yaml:"no_style,omitempty" json:"no_style,omitempty"`
	// Simple dishes skip the customization dialog and go straight to the cart.
	Simple bool `yaml:"simple,omitempty" json:"simple,omitempty"`
}

// Dish converts the menu entry into the customization base dish.
func (i Item) Dish() domain.Dish {
	return domain.Dish{
		Name:             i.Name,
		BasePrice:        i.Price,
		CoconutSurcharge: i.CoconutSurcharge,
		RiceApplicable:   !i.NoRice,
		StyleApplicable:  !i.NoStyle,
	}
}

type Section struct {
	Category string `yaml:"category" json:"category"`
	Title    string `yaml:"title" json:"title"`
	Dishes   []Item `yaml:"dishes" json:"dishes"`
}

type Menu struct {
	Sections []Section `yaml:"sections" json:"sections"`

	byID map[string]Item
}

// Default returns the embedded menu.
func Default() (*Menu, error) {
	return Parse(defaultMenu)
}

// Load reads a menu file, falling back to the embedded menu when path is empty.
func Load(path string) (*Menu, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML menu.
func Parse(raw []byte) (*Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	m.byID = make(map[string]Item)
	for _, s := range m.Sections {
		if s.Category == "" || s.Category == CategoryAll {
			return nil, fmt.Errorf("catalog: section %q has an invalid category", s.Title)
		}
		for _, d := range s.Dishes {
			if d.ID == "" || strings.TrimSpace(d.Name) == "" {
				return nil, fmt.Errorf("catalog: dish in %q needs an id and a name", s.Category)
			}
			if d.Price < 0 || d.CoconutSurcharge < 0 {
				return nil, fmt.Errorf("catalog: dish %q has a negative price", d.ID)
			}
			if _, dup := m.byID[d.ID]; dup {
				return nil, fmt.Errorf("catalog: duplicate dish id %q", d.ID)
			}
			m.byID[d.ID] = d
		}
	}
	return &m, nil
}

// Lookup finds a dish by id.
func (m *Menu) Lookup(id string) (Item, bool) {
	d, ok := m.byID[id]
	return d, ok
}

// Filter returns the sections of a category; CategoryAll or "" returns all of them.
func (m *Menu) Filter(category string) []Section {
	if category == "" || category == CategoryAll {
		return m.Sections
	}
	var out []Section
	for _, s := range m.Sections {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// Categories lists section categories in menu order.
func (m *Menu) Categories() []string {
	out := make([]string, 0, len(m.Sections))
	for _, s := range m.Sections {
		out = append(out, s.Category)
	}
	return out
}
