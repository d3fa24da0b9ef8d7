package body

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := Descriptor{Name: "Earth", Radius: 6, OrbitRadius: 62, OrbitSpeed: 0.01, SpinSpeed: 0.02}

	cases := []struct {
		name    string
		mutate  func(*Descriptor)
		wantErr bool
	}{
		{"valid planet", func(d *Descriptor) {}, false},
		{"missing name", func(d *Descriptor) { d.Name = "" }, true},
		{"negative radius", func(d *Descriptor) { d.Radius = -1 }, true},
		{"zero radius", func(d *Descriptor) { d.Radius = 0 }, true},
		{"non-central without orbit radius", func(d *Descriptor) { d.OrbitRadius = 0 }, true},
		{"central body", func(d *Descriptor) { d.Central = true; d.OrbitRadius = 0; d.OrbitSpeed = 0 }, false},
		{"central body with orbit", func(d *Descriptor) { d.Central = true }, true},
		{"parametric with path", func(d *Descriptor) {
			d.Parametric = true
			d.OrbitRadius = 0
			d.Path = Path{RadiusX: 300, RadiusZ: 200, Speed: 0.1}
		}, false},
		{"parametric without semi-axes", func(d *Descriptor) { d.Parametric = true; d.OrbitRadius = 0 }, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := valid
			c.mutate(&d)
			err := d.Validate()
			if c.wantErr && err == nil {
				t.Fatal("want error, got nil")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidDescriptor) {
				t.Fatalf("error %v does not wrap ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestValidateAllDuplicates(t *testing.T) {
	descs := []Descriptor{
		{Name: "Twin", Radius: 1, OrbitRadius: 10},
		{Name: "Twin", Radius: 2, OrbitRadius: 20},
	}
	if err := ValidateAll(descs); !errors.Is(err, ErrInvalidDescriptor) {
		t.Fatalf("duplicate names should be rejected, got %v", err)
	}
}

func TestValidateAllTwoCentralBodies(t *testing.T) {
	descs := []Descriptor{
		{Name: "A", Radius: 1, Central: true},
		{Name: "B", Radius: 1, Central: true},
	}
	if err := ValidateAll(descs); !errors.Is(err, ErrInvalidDescriptor) {
		t.Fatalf("two central bodies should be rejected, got %v", err)
	}
}

func TestCatalogIsValid(t *testing.T) {
	descs := Catalog()
	if err := ValidateAll(descs); err != nil {
		t.Fatalf("default catalog is invalid: %v", err)
	}

	var central, ringed, parametric int
	for _, d := range descs {
		if d.Central {
			central++
		}
		if d.HasRing {
			ringed++
		}
		if d.Parametric {
			parametric++
		}
	}
	if central != 1 {
		t.Fatalf("catalog has %d central bodies, want 1", central)
	}
	if ringed != 1 {
		t.Fatalf("catalog has %d ringed bodies, want 1", ringed)
	}
	if parametric != 1 {
		t.Fatalf("catalog has %d parametric bodies, want 1", parametric)
	}
}
