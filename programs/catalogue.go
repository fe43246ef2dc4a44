package programs

import (
	_ "embed"
	"fmt"
)

//go:embed default.vert
var vertexSource string

// VertexSource is the vertex stage shared by every visualization.
// It maps the quad vertices straight to clip space.
func VertexSource() string {
	return vertexSource
}

// A Visualization is a named fragment shader. Fragment holds the embedded
// source for stock visualizations and is empty for names that are only
// resolvable through an external store.
type Visualization struct {
	Name     string
	Fragment string
}

// Catalogue is an ordered set of visualizations, fixed at construction.
type Catalogue struct {
	items []Visualization
	index map[string]int
}

func NewCatalogue(items []Visualization) (*Catalogue, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("catalogue is empty")
	}

	c := &Catalogue{
		items: make([]Visualization, len(items)),
		index: make(map[string]int, len(items)),
	}
	copy(c.items, items)

	for i, v := range c.items {
		if v.Name == "" {
			return nil, fmt.Errorf("catalogue entry %v has no name", i)
		}
		if _, ok := c.index[v.Name]; ok {
			return nil, fmt.Errorf("duplicate visualization %q", v.Name)
		}
		c.index[v.Name] = i
	}

	return c, nil
}

// FromNames builds a catalogue from configured names, attaching the
// embedded source wherever a stock visualization has the same name.
func FromNames(names []string) (*Catalogue, error) {
	items := make([]Visualization, len(names))
	for i, name := range names {
		items[i] = Visualization{Name: name}
		if frag, ok := stockFragment(name); ok {
			items[i].Fragment = frag
		}
	}
	return NewCatalogue(items)
}

// DefaultCatalogue lists the embedded visualizations in registration order.
func DefaultCatalogue() *Catalogue {
	c, err := NewCatalogue(stock)
	if err != nil {
		panic(fmt.Errorf("stock catalogue: %w", err))
	}
	return c
}

func (c *Catalogue) Len() int {
	return len(c.items)
}

func (c *Catalogue) At(i int) Visualization {
	return c.items[i]
}

// Wrap maps any integer onto a valid index, treating the catalogue as
// circular. Negative indices count back from the end.
func (c *Catalogue) Wrap(i int) int {
	n := len(c.items)
	return ((i % n) + n) % n
}

// Fragment returns the embedded source for name, if it has one.
func (c *Catalogue) Fragment(name string) (string, bool) {
	i, ok := c.index[name]
	if !ok || c.items[i].Fragment == "" {
		return "", false
	}
	return c.items[i].Fragment, true
}

var stock []Visualization

func register(name, fragment string) {
	for _, v := range stock {
		if v.Name == name {
			panic("programs: duplicate visualization " + name)
		}
	}
	stock = append(stock, Visualization{Name: name, Fragment: fragment})
}

func stockFragment(name string) (string, bool) {
	for _, v := range stock {
		if v.Name == name {
			return v.Fragment, true
		}
	}
	return "", false
}
