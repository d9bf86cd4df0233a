// Package catalog holds the immutable species dataset. The dataset is read
// once at startup and never mutated afterwards, so a Catalog is safe to share
// across request handlers without locking.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// EvolutionTarget is a single forward "evolves into" edge as encoded in the
// dataset: the id of the evolved form plus a free-form condition label
// ("Level 16", "Water Stone"). The condition is carried as display data only.
type EvolutionTarget struct {
	ID        int    `json:"id"`
	Condition string `json:"condition,omitempty"`
}

// Species is one catalog entry. Records are immutable at runtime.
type Species struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Types       []string          `json:"types"`
	Description string            `json:"description,omitempty"`
	EvolvesTo   []EvolutionTarget `json:"evolves_to,omitempty"`
	Sprite      string            `json:"sprite,omitempty"`
	Thumbnail   string            `json:"thumbnail,omitempty"`
	BaseStats   map[string]int    `json:"base_stats,omitempty"`
}

// Catalog is the loaded species dataset, indexed by id.
type Catalog struct {
	species []Species
	byID    map[int]*Species
}

// New builds a Catalog from a slice of species records. Input order is
// preserved for All. Duplicate ids keep the last record for lookup.
func New(species []Species) *Catalog {
	c := &Catalog{
		species: species,
		byID:    make(map[int]*Species, len(species)),
	}
	for i := range species {
		c.byID[species[i].ID] = &species[i]
	}
	return c
}

// LoadFile reads and parses the species dataset from a JSON file.
// Any read or parse failure is fatal to startup; there is no partial load.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read species dataset: %w", err)
	}

	var species []Species
	if err := json.Unmarshal(data, &species); err != nil {
		return nil, fmt.Errorf("failed to parse species dataset %s: %w", path, err)
	}

	return New(species), nil
}

// Get returns the species with the given id, or nil if absent.
func (c *Catalog) Get(id int) *Species {
	return c.byID[id]
}

// All returns every species in dataset order. Callers must not mutate the
// returned slice or the records it points at.
func (c *Catalog) All() []Species {
	return c.species
}

// Len returns the number of species in the catalog.
func (c *Catalog) Len() int {
	return len(c.species)
}
