package moves

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sjfleming/ssDNA-MCMC/internal/chain"
	"github.com/sjfleming/ssDNA-MCMC/internal/physics"
)

// Kind identifies a proposal move kernel.
type Kind int

const (
	Translation Kind = iota
	Rotation
	Crankshaft

	NumKinds = 3
)

func (k Kind) String() string {
	switch k {
	case Translation:
		return "translation"
	case Rotation:
		return "rotation"
	case Crankshaft:
		return "crankshaft"
	default:
		return "unknown"
	}
}

// Pick draws a move kind uniformly.
func Pick(rng *rand.Rand) Kind {
	return Kind(rng.Intn(NumKinds))
}

// Propose dispatches to the kernel for k. Every kernel copies the input
// conformation and returns a full candidate; the input is never mutated.
func Propose(k Kind, c chain.Conformation, par physics.Params, rng *rand.Rand) chain.Conformation {
	switch k {
	case Translation:
		return Translate(c, par, rng)
	case Rotation:
		return Rotate(c, par, rng)
	default:
		return CrankshaftMove(c, rng)
	}
}

// Translate shifts a contiguous bead range [i,j] (i and j may coincide or
// span the whole chain) by a random direction scaled by
// sqrt(step·2·kT/k_s·π/2)·step·U(0,1).
func Translate(c chain.Conformation, par physics.Params, rng *rand.Rand) chain.Conformation {
	cand := c.Clone()
	n := len(cand)
	i, j := rng.Intn(n), rng.Intn(n)
	if i > j {
		i, j = j, i
	}

	scale := math.Sqrt(par.Step * 2 * par.KT() / par.StretchModulus * math.Pi / 2)
	mag := scale * par.Step * rng.Float64()
	d := r3.Scale(mag, randomUnit(rng))

	for k := i; k <= j; k++ {
		cand[k] = r3.Add(cand[k], d)
	}
	return cand
}

// Rotate applies a cone-constrained random rotation about a uniformly
// chosen pivot bead to the sub-chain on one side of it. The maximum
// rotation angle is tanh(sqrt(2/k_b)·step²), so larger bending stiffness
// shrinks the proposal.
func Rotate(c chain.Conformation, par physics.Params, rng *rand.Rand) chain.Conformation {
	cand := c.Clone()
	n := len(cand)
	pivot := rng.Intn(n)

	dtheta := math.Tanh(math.Sqrt(2/par.BendStiffness) * par.Step * par.Step)
	rot := coneRotation(dtheta, rng)

	lo, hi := 0, pivot // sub-chain before the pivot
	if rng.Intn(2) == 0 {
		lo, hi = pivot+1, n // sub-chain after the pivot
	}

	p := cand[pivot]
	for k := lo; k < hi; k++ {
		cand[k] = r3.Add(p, rot.Rotate(r3.Sub(cand[k], p)))
	}
	return cand
}

// CrankshaftMove rotates beads [i,j] about the axis joining beads i and j
// by an angle uniform in [0, 2π). Beads outside [i,j] never move, and the
// two endpoints are on the axis so they stay put as well.
func CrankshaftMove(c chain.Conformation, rng *rand.Rand) chain.Conformation {
	cand := c.Clone()
	n := len(cand)
	if n < 2 {
		return cand
	}

	i := rng.Intn(n)
	j := rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}
	if i > j {
		i, j = j, i
	}

	axis := r3.Sub(cand[j], cand[i])
	if r3.Norm2(axis) == 0 {
		// Coincident endpoints leave the axis undefined; the identity
		// proposal keeps the kernel well-behaved.
		return cand
	}

	angle := 2 * math.Pi * rng.Float64()
	rot := r3.NewRotation(angle, axis)

	origin := cand[i]
	for k := i; k <= j; k++ {
		cand[k] = r3.Add(origin, rot.Rotate(r3.Sub(cand[k], origin)))
	}
	return cand
}

// randomUnit draws a direction uniformly on the unit sphere.
func randomUnit(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		if n := r3.Norm(v); n > 1e-12 {
			return r3.Scale(1/n, v)
		}
	}
}

// coneRotation samples a rotation with a uniformly distributed axis and
// an angle uniform in [0, maxAngle].
func coneRotation(maxAngle float64, rng *rand.Rand) r3.Rotation {
	return r3.NewRotation(maxAngle*rng.Float64(), randomUnit(rng))
}
