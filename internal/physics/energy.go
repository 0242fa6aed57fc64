package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sjfleming/ssDNA-MCMC/internal/chain"
)

// Boundary reports whether a bead position lies inside the allowed region.
type Boundary func(r3.Vec) bool

// ForceField maps a per-step bead displacement (candidate minus last
// accepted position, not an absolute position) to an energy contribution.
type ForceField func(r3.Vec) float64

// Interaction maps a full conformation to an arbitrary potential energy.
type Interaction func([]r3.Vec) float64

// Model scores conformations. The bonded term is a state function of
// position; the constraint term depends on the last accepted conformation
// and may be +Inf.
type Model struct {
	par         Params
	boundary    Boundary
	force       ForceField
	interaction Interaction
}

func NewModel(par Params, boundary Boundary, force ForceField, interaction Interaction) *Model {
	return &Model{par: par, boundary: boundary, force: force, interaction: interaction}
}

func (m *Model) Params() Params { return m.par }

// Bonded returns the stretch plus bend energy of c:
//
//	U = ½·k_s·Σ(|seg_i| − l_k)² − k_b·Σ cosθ_i
//
// where cosθ_i runs over interior joints only.
func (m *Model) Bonded(c chain.Conformation) float64 {
	var stretch, bend float64
	for i := 0; i+1 < len(c); i++ {
		seg := r3.Sub(c[i+1], c[i])
		d := r3.Norm(seg) - m.par.KuhnLength
		stretch += d * d
	}
	for i := 0; i+2 < len(c); i++ {
		a := r3.Sub(c[i+1], c[i])
		b := r3.Sub(c[i+2], c[i+1])
		bend += cosAngle(a, b)
	}
	return 0.5*m.par.StretchModulus*stretch - m.par.BendStiffness*bend
}

// Constraint returns the constraint energy of a candidate against the
// currently accepted conformation. A boundary violation short-circuits
// to +Inf; otherwise the force field is summed over per-bead
// displacements; with neither configured the result is 0.
func (m *Model) Constraint(candidate, accepted chain.Conformation) float64 {
	if m.boundary != nil {
		for _, b := range candidate {
			if !m.boundary(b) {
				return math.Inf(1)
			}
		}
	}
	if m.force != nil {
		var sum float64
		for i := range candidate {
			sum += m.force(r3.Sub(candidate[i], accepted[i]))
		}
		return sum
	}
	return 0
}

// Interaction evaluates the configured interaction potential once on the
// full candidate, or 0 when none is configured.
func (m *Model) Interaction(candidate chain.Conformation) float64 {
	if m.interaction == nil {
		return 0
	}
	return m.interaction(candidate)
}

// CosAngles returns the bend cosine at every bead. Both termini are 0 by
// convention; interior bead i holds the cosine between segments i-1→i
// and i→i+1.
func CosAngles(c chain.Conformation) []float64 {
	out := make([]float64, len(c))
	for i := 1; i+1 < len(c); i++ {
		a := r3.Sub(c[i], c[i-1])
		b := r3.Sub(c[i+1], c[i])
		out[i] = cosAngle(a, b)
	}
	return out
}

func cosAngle(a, b r3.Vec) float64 {
	na, nb := r3.Norm(a), r3.Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return r3.Dot(a, b) / (na * nb)
}
