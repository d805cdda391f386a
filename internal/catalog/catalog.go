// Package catalog holds the static registry of benchmark problem instances.
//
// The catalog is populated once at session start and read-only afterwards.
// Downstream reports assume a fixed instance ordering, so AllIDs always
// returns instances in registration order.
package catalog

import (
	"errors"
	"fmt"

	"github.com/aco-bench/experiment-core/pkg/models"
)

var ErrInstanceNotFound = errors.New("instance not found")

// Catalog maps instance identifiers to their descriptors while preserving
// registration order.
type Catalog struct {
	order []string
	byID  map[string]models.InstanceDescriptor
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byID: make(map[string]models.InstanceDescriptor),
	}
}

// FromDescriptors builds a catalog from a descriptor list, preserving order.
func FromDescriptors(descriptors []models.InstanceDescriptor) (*Catalog, error) {
	c := New()
	for _, d := range descriptors {
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a descriptor to the catalog. Meant to be called only during
// initial population, before any lookups.
func (c *Catalog) Register(d models.InstanceDescriptor) error {
	if d.ID == "" {
		return fmt.Errorf("instance id cannot be empty")
	}
	if d.CityCount <= 0 {
		return fmt.Errorf("instance %s: city count must be positive, got %d", d.ID, d.CityCount)
	}
	if d.OptimalObjective <= 0 {
		return fmt.Errorf("instance %s: optimal objective must be positive, got %f", d.ID, d.OptimalObjective)
	}
	if _, exists := c.byID[d.ID]; exists {
		return fmt.Errorf("duplicate instance id: %s", d.ID)
	}
	c.order = append(c.order, d.ID)
	c.byID[d.ID] = d
	return nil
}

// Lookup returns the descriptor registered under id.
func (c *Catalog) Lookup(id string) (models.InstanceDescriptor, error) {
	d, ok := c.byID[id]
	if !ok {
		return models.InstanceDescriptor{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	return d, nil
}

// AllIDs returns all instance identifiers in registration order.
func (c *Catalog) AllIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of registered instances.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Default returns the standard TSPLIB instance set used by the benchmark
// campaign, with their known optimal tour lengths.
func Default() *Catalog {
	c := New()
	for _, d := range []models.InstanceDescriptor{
		{ID: "eil51", CityCount: 51, OptimalObjective: 426},
		{ID: "kroA100", CityCount: 100, OptimalObjective: 21282},
		{ID: "kroA150", CityCount: 150, OptimalObjective: 26524},
		{ID: "gr202", CityCount: 202, OptimalObjective: 40160},
	} {
		// Static descriptors, registration cannot fail.
		_ = c.Register(d)
	}
	return c
}
