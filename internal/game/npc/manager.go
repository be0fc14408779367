package npc

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog indexes creature templates by ID.
// All methods are safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewCatalog creates a Catalog holding templates.
//
// Precondition: every template must have passed Validate().
// Postcondition: Returns an error if two templates share an ID.
func NewCatalog(templates []*Template) (*Catalog, error) {
	c := &Catalog{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if err := c.Add(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add registers tmpl.
//
// Precondition: tmpl must be non-nil.
// Postcondition: Returns an error if a template with the same ID is already registered.
func (c *Catalog) Add(tmpl *Template) error {
	if tmpl == nil {
		return fmt.Errorf("npc.Catalog.Add: tmpl must not be nil")
	}
	key := strings.ToLower(tmpl.ID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.templates[key]; exists {
		return fmt.Errorf("npc template %q already registered", tmpl.ID)
	}
	c.templates[key] = tmpl
	return nil
}

// Get returns the template with the given ID, case-insensitively.
//
// Postcondition: Returns (tmpl, true) if found, or (nil, false) otherwise.
func (c *Catalog) Get(id string) (*Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[strings.ToLower(id)]
	return t, ok
}

// IDs returns every registered template ID in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.templates))
	for _, t := range c.templates {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered templates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}
