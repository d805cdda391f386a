package catalog

import (
	"errors"
	"testing"

	"github.com/aco-bench/experiment-core/pkg/models"
)

func TestRegisterAndLookup(t *testing.T) {
	c := New()
	err := c.Register(models.InstanceDescriptor{ID: "eil51", CityCount: 51, OptimalObjective: 426})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	d, err := c.Lookup("eil51")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if d.CityCount != 51 {
		t.Errorf("expected 51 cities, got %d", d.CityCount)
	}
	if d.OptimalObjective != 426 {
		t.Errorf("expected optimal 426, got %f", d.OptimalObjective)
	}
}

func TestLookupUnregistered(t *testing.T) {
	c := New()
	_, err := c.Lookup("berlin52")
	if err == nil {
		t.Fatal("expected error for unregistered instance")
	}
	if !errors.Is(err, ErrInstanceNotFound) {
		t.Errorf("expected ErrInstanceNotFound, got %v", err)
	}
}

func TestRegistrationOrderStable(t *testing.T) {
	c := New()
	ids := []string{"zeta", "alpha", "mid"}
	for _, id := range ids {
		if err := c.Register(models.InstanceDescriptor{ID: id, CityCount: 10, OptimalObjective: 1}); err != nil {
			t.Fatalf("Register(%s) failed: %v", id, err)
		}
	}

	got := c.AllIDs()
	if len(got) != len(ids) {
		t.Fatalf("expected %d ids, got %d", len(ids), len(got))
	}
	for i, id := range ids {
		if got[i] != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i])
		}
	}

	// AllIDs must return a copy, not the internal slice.
	got[0] = "mutated"
	if c.AllIDs()[0] != "zeta" {
		t.Error("AllIDs returned internal slice, mutation leaked into catalog")
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		desc models.InstanceDescriptor
	}{
		{"empty id", models.InstanceDescriptor{ID: "", CityCount: 10, OptimalObjective: 1}},
		{"zero cities", models.InstanceDescriptor{ID: "x", CityCount: 0, OptimalObjective: 1}},
		{"zero optimal", models.InstanceDescriptor{ID: "x", CityCount: 10, OptimalObjective: 0}},
	}

	for _, tt := range tests {
		c := New()
		if err := c.Register(tt.desc); err == nil {
			t.Errorf("%s: expected error, got none", tt.name)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	c := New()
	d := models.InstanceDescriptor{ID: "eil51", CityCount: 51, OptimalObjective: 426}
	if err := c.Register(d); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := c.Register(d); err == nil {
		t.Fatal("expected error on duplicate registration")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	expected := []string{"eil51", "kroA100", "kroA150", "gr202"}
	got := c.AllIDs()
	if len(got) != len(expected) {
		t.Fatalf("expected %d instances, got %d", len(expected), len(got))
	}
	for i, id := range expected {
		if got[i] != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i])
		}
	}

	gr, err := c.Lookup("gr202")
	if err != nil {
		t.Fatalf("Lookup(gr202) failed: %v", err)
	}
	if gr.CityCount != 202 || gr.OptimalObjective != 40160 {
		t.Errorf("gr202 descriptor wrong: %+v", gr)
	}
}
