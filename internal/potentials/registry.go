package potentials

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sjfleming/ssDNA-MCMC/internal/physics"
)

// Registry resolves boundary, force and interaction names (as used by
// the CLI) to constructors parameterized by a flat map.
type Registry struct {
	boundaries   map[string]func(params map[string]float64) physics.Boundary
	forces       map[string]func(params map[string]float64) physics.ForceField
	interactions map[string]func(params map[string]float64) physics.Interaction
}

func NewRegistry() *Registry {
	r := &Registry{
		boundaries:   make(map[string]func(map[string]float64) physics.Boundary),
		forces:       make(map[string]func(map[string]float64) physics.ForceField),
		interactions: make(map[string]func(map[string]float64) physics.Interaction),
	}

	r.boundaries["sphere"] = func(p map[string]float64) physics.Boundary {
		radius := p["radius"]
		if radius == 0 {
			radius = 10
		}
		return Sphere(radius)
	}
	r.boundaries["slab"] = func(p map[string]float64) physics.Boundary {
		return Slab(p["zmin"], p["zmax"])
	}
	r.boundaries["halfspace"] = func(p map[string]float64) physics.Boundary {
		return HalfSpace()
	}

	r.forces["constant"] = func(p map[string]float64) physics.ForceField {
		return ConstantForce(r3.Vec{X: p["fx"], Y: p["fy"], Z: p["fz"]})
	}
	r.forces["drag"] = func(p map[string]float64) physics.ForceField {
		return Drag(p["gamma"])
	}

	r.interactions["softcore"] = func(p map[string]float64) physics.Interaction {
		eps := p["eps"]
		if eps == 0 {
			eps = 1
		}
		sigma := p["sigma"]
		if sigma == 0 {
			sigma = 1
		}
		return SoftCoreRepulsion(eps, sigma)
	}

	return r
}

func (r *Registry) GetBoundary(name string, params map[string]float64) (physics.Boundary, error) {
	fn, ok := r.boundaries[name]
	if !ok {
		return nil, fmt.Errorf("unknown boundary: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) GetForce(name string, params map[string]float64) (physics.ForceField, error) {
	fn, ok := r.forces[name]
	if !ok {
		return nil, fmt.Errorf("unknown force field: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) GetInteraction(name string, params map[string]float64) (physics.Interaction, error) {
	fn, ok := r.interactions[name]
	if !ok {
		return nil, fmt.Errorf("unknown interaction: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) ListBoundaries() []string   { return sortedKeys(r.boundaries) }
func (r *Registry) ListForces() []string       { return sortedKeys(r.forces) }
func (r *Registry) ListInteractions() []string { return sortedKeys(r.interactions) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
