package models

// CategoryAll is the query sentinel that matches every category.
const CategoryAll = "All"

// FallbackAccent is the accent shown for a category outside the catalog.
const FallbackAccent = "bg-gray-500"

// Category is a named tag with a decorative display accent.
type Category struct {
	Name   string `json:"name" yaml:"name"`
	Accent string `json:"accent" yaml:"accent"`
}

// Catalog is the fixed set of categories notes can be tagged with.
// It is built once from configuration and never mutated.
type Catalog struct {
	items    []Category
	byName   map[string]Category
	fallback string
}

// NewCatalog builds a catalog from items. def must name one of items;
// if it does not, the first item becomes the default.
func NewCatalog(items []Category, def string) *Catalog {
	c := &Catalog{
		items:  make([]Category, len(items)),
		byName: make(map[string]Category, len(items)),
	}
	copy(c.items, items)
	for _, it := range items {
		c.byName[it.Name] = it
	}
	if _, ok := c.byName[def]; ok {
		c.fallback = def
	} else if len(items) > 0 {
		c.fallback = items[0].Name
	}
	return c
}

// DefaultCategories returns the built-in category set.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Personal", Accent: "bg-blue-500"},
		{Name: "Work", Accent: "bg-green-500"},
		{Name: "Ideas", Accent: "bg-purple-500"},
		{Name: "Tasks", Accent: "bg-orange-500"},
		{Name: "Study", Accent: "bg-pink-500"},
	}
}

// DefaultCatalog returns the built-in catalog with "Personal" as default.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultCategories(), "Personal")
}

// Items returns the categories in configured order.
func (c *Catalog) Items() []Category {
	out := make([]Category, len(c.items))
	copy(out, c.items)
	return out
}

// Default returns the name of the default category.
func (c *Catalog) Default() string {
	return c.fallback
}

// Has reports whether name is a known category.
func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Resolve returns name when it is a known category, else the default.
func (c *Catalog) Resolve(name string) string {
	if c.Has(name) {
		return name
	}
	return c.fallback
}

// Accent returns the display accent for name.
func (c *Catalog) Accent(name string) string {
	if it, ok := c.byName[name]; ok && it.Accent != "" {
		return it.Accent
	}
	return FallbackAccent
}

// MatchesFilter reports whether a note in category name passes the
// category filter. CategoryAll matches everything.
func MatchesFilter(name, filter string) bool {
	return filter == CategoryAll || filter == name
}
