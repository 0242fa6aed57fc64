package potentials

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestSphere(t *testing.T) {
	b := Sphere(2.0)
	if !b(r3.Vec{}) {
		t.Error("origin should be inside the sphere")
	}
	if !b(r3.Vec{X: 2}) {
		t.Error("surface should count as inside")
	}
	if b(r3.Vec{X: 2.1}) {
		t.Error("point beyond radius should be outside")
	}
}

func TestSlabAndHalfSpace(t *testing.T) {
	s := Slab(-1, 1)
	if !s(r3.Vec{Z: 0.5}) || s(r3.Vec{Z: 1.5}) || s(r3.Vec{Z: -1.5}) {
		t.Error("slab membership wrong")
	}

	h := HalfSpace()
	if !h(r3.Vec{}) || h(r3.Vec{Z: -0.1}) {
		t.Error("halfspace membership wrong")
	}
}

func TestConstantForce(t *testing.T) {
	f := ConstantForce(r3.Vec{X: 2})
	// Displacement along the force lowers the energy.
	if got := f(r3.Vec{X: 1}); got != -2 {
		t.Errorf("expected -2, got %f", got)
	}
	if got := f(r3.Vec{X: -1}); got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
	if got := f(r3.Vec{Y: 3}); got != 0 {
		t.Errorf("perpendicular displacement should cost nothing, got %f", got)
	}
}

func TestSoftCoreRepulsion(t *testing.T) {
	u := SoftCoreRepulsion(1.0, 1.0)

	// Adjacent beads are excluded from the pair sum.
	if got := u([]r3.Vec{{}, {X: 0.1}}); got != 0 {
		t.Errorf("adjacent pair should not interact, got %f", got)
	}

	// Overlapping non-adjacent pair is capped at eps.
	if got := u([]r3.Vec{{}, {X: 5}, {X: 0.01}}); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected capped energy 1.0, got %f", got)
	}

	// Distant beads contribute nearly nothing.
	if got := u([]r3.Vec{{}, {X: 5}, {X: 10}}); got > 1e-3 {
		t.Errorf("expected negligible energy at distance, got %f", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetBoundary("sphere", map[string]float64{"radius": 3}); err != nil {
		t.Errorf("sphere boundary: %v", err)
	}
	if _, err := r.GetBoundary("nope", nil); err == nil {
		t.Error("expected error for unknown boundary")
	}
	if _, err := r.GetForce("constant", map[string]float64{"fz": 1}); err != nil {
		t.Errorf("constant force: %v", err)
	}
	if _, err := r.GetInteraction("softcore", nil); err != nil {
		t.Errorf("softcore interaction: %v", err)
	}

	if len(r.ListBoundaries()) != 3 {
		t.Errorf("expected 3 boundaries, got %v", r.ListBoundaries())
	}
}
