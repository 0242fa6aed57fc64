// Package potentials provides ready-made boundary predicates, force
// fields and interaction potentials for common sampling setups. All of
// them satisfy the capability types of the physics package; user code
// can always supply its own closures instead.
package potentials

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sjfleming/ssDNA-MCMC/internal/physics"
)

// Sphere confines beads to a ball of the given radius about the origin.
func Sphere(radius float64) physics.Boundary {
	return func(p r3.Vec) bool {
		return r3.Norm(p) <= radius
	}
}

// Slab confines beads to zmin <= z <= zmax.
func Slab(zmin, zmax float64) physics.Boundary {
	return func(p r3.Vec) bool {
		return p.Z >= zmin && p.Z <= zmax
	}
}

// HalfSpace confines beads to z >= 0, modeling an impenetrable surface.
func HalfSpace() physics.Boundary {
	return func(p r3.Vec) bool {
		return p.Z >= 0
	}
}

// ConstantForce models a uniform pulling force f (pN). The energy of a
// per-step displacement d is -f·d, so displacement along the force is
// favored.
func ConstantForce(f r3.Vec) physics.ForceField {
	return func(d r3.Vec) float64 {
		return -r3.Dot(f, d)
	}
}

// Drag penalizes displacement magnitude quadratically, damping large
// per-step motion without biasing its direction.
func Drag(gamma float64) physics.ForceField {
	return func(d r3.Vec) float64 {
		return gamma * r3.Norm2(d)
	}
}

// SoftCoreRepulsion is a pairwise excluded-volume potential:
// eps·(sigma/r)⁶ summed over all non-adjacent bead pairs, capped at eps
// per pair so overlapping beads stay finite.
func SoftCoreRepulsion(eps, sigma float64) physics.Interaction {
	return func(c []r3.Vec) float64 {
		var u float64
		for i := 0; i < len(c); i++ {
			for j := i + 2; j < len(c); j++ {
				r := r3.Norm(r3.Sub(c[i], c[j]))
				if r >= sigma {
					ratio := sigma / r
					u += eps * math.Pow(ratio, 6)
				} else {
					u += eps
				}
			}
		}
		return u
	}
}
