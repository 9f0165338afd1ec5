package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinYAML []byte

// AllCategories is the pseudo-category that disables filtering.
const AllCategories = "All"

// Catalog is an immutable, ordered set of action templates.
type Catalog struct {
	actions []ActionTemplate
	byName  map[string]int
}

// New builds a catalog from templates, keeping their order.
func New(actions []ActionTemplate) *Catalog {
	c := &Catalog{
		actions: make([]ActionTemplate, 0, len(actions)),
		byName:  make(map[string]int, len(actions)),
	}
	for _, a := range actions {
		if a.Variables == nil {
			a.Variables = []string{}
		}
		c.byName[a.Name] = len(c.actions)
		c.actions = append(c.actions, a)
	}
	return c
}

var builtin = sync.OnceValues(func() (*Catalog, error) {
	return Parse(bytes.NewReader(builtinYAML))
})

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	return builtin()
}

// Load returns the builtin catalog when path is empty, else the catalog in path.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse decodes a catalog document strictly and validates it.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse catalog: empty document")
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if problems := Validate(&doc); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return New(doc.Actions), nil
}

// All returns every template in catalog order.
func (c *Catalog) All() []ActionTemplate {
	out := make([]ActionTemplate, len(c.actions))
	copy(out, c.actions)
	return out
}

// Len reports the number of templates.
func (c *Catalog) Len() int { return len(c.actions) }

// Filter returns templates in category; "" and "All" return everything.
func (c *Catalog) Filter(category string) []ActionTemplate {
	if category == "" || category == AllCategories {
		return c.All()
	}
	out := []ActionTemplate{}
	for _, a := range c.actions {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// Categories returns "All" followed by each category in first-seen order.
func (c *Catalog) Categories() []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, a := range c.actions {
		if !seen[a.Category] {
			seen[a.Category] = true
			out = append(out, a.Category)
		}
	}
	return out
}

// Find looks a template up by exact name, falling back to a
// case-insensitive match.
func (c *Catalog) Find(name string) (ActionTemplate, bool) {
	if i, ok := c.byName[name]; ok {
		return c.actions[i], true
	}
	for _, a := range c.actions {
		if strings.EqualFold(a.Name, strings.TrimSpace(name)) {
			return a, true
		}
	}
	return ActionTemplate{}, false
}
