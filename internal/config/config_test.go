package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Beads() != 11 {
		t.Errorf("expected 11 beads for defaults, got %d", cfg.Beads())
	}
}

func TestValidateNamesOffendingField(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"l_k", func(c *Config) { c.KuhnLength = 0.2 }},
		{"k_b", func(c *Config) { c.BendStiffness = 0 }},
		{"k_s", func(c *Config) { c.StretchModulus = -1 }},
		{"l_b", func(c *Config) { c.BaseLength = 1.0 }},
		{"temperature", func(c *Config) { c.Temperature = 273.15 }},
		{"bases", func(c *Config) { c.Bases = 6 }},
		{"step", func(c *Config) { c.Step = 0 }},
		{"fixed_point_mode", func(c *Config) { c.FixedPointMode = "patch" }},
		{"fixed_points", func(c *Config) { c.FixedPoints = []FixedPoint{{Base: 0}} }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tt.field)
			continue
		}
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%s: expected ErrInvalidConfiguration, got %v", tt.field, err)
		}
		if !strings.Contains(err.Error(), tt.field) {
			t.Errorf("%s: error does not name the field: %v", tt.field, err)
		}
	}
}

func TestForceValuesReserved(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ForceValues = []float64{1, 2, 3}
	err := cfg.Validate()
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented for force_values, got %v", err)
	}
}

func TestBuildTruncatesLongCoordinates(t *testing.T) {
	cfg := DefaultConfig()
	coords := make([][3]float64, 15)
	for i := range coords {
		coords[i] = [3]float64{float64(i) * cfg.KuhnLength, 0, 0}
	}
	cfg.InitialCoordinates = coords

	s, warnings, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if s.Beads() != 11 {
		t.Errorf("expected chain truncated to 11 beads, got %d", s.Beads())
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one truncation warning, got %v", warnings)
	}
}

func TestBuildRejectsShortCoordinates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialCoordinates = make([][3]float64, 5)
	_, _, err := cfg.Build()
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration for short coordinates, got %v", err)
	}
}

func TestBuildAnchorsLineToFirstFixedPoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FixedPoints = []FixedPoint{{Base: 1, Position: [3]float64{2, -1, 4}}}

	s, _, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Current()[0]; got != (r3.Vec{X: 2, Y: -1, Z: 4}) {
		t.Errorf("expected first bead anchored at (2,-1,4), got %v", got)
	}
}

func TestCallablesProbedAtConstruction(t *testing.T) {
	cfg := DefaultConfig()
	var boundaryProbed, forceProbed, interactionBeads int
	cfg.Boundary = func(p r3.Vec) bool { boundaryProbed++; return true }
	cfg.ForceFunction = func(d r3.Vec) float64 { forceProbed++; return 0 }
	cfg.InteractionFunction = func(c []r3.Vec) float64 { interactionBeads = len(c); return 0 }

	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if boundaryProbed == 0 {
		t.Error("boundary not probed at origin")
	}
	if forceProbed == 0 {
		t.Error("force function not probed at origin")
	}
	if interactionBeads != 2 {
		t.Errorf("interaction probed with %d beads, expected a 2-bead test array", interactionBeads)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bases = 50
	cfg.Seed = 1234
	cfg.FixedPoints = []FixedPoint{{Base: 1, Position: [3]float64{0, 0, 0}}}

	path := filepath.Join(t.TempDir(), "chain.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Bases != 50 || loaded.Seed != 1234 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.FixedPoints) != 1 || loaded.FixedPoints[0].Base != 1 {
		t.Errorf("round trip lost fixed points: %+v", loaded.FixedPoints)
	}
}
