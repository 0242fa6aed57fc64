package physics

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sjfleming/ssDNA-MCMC/internal/chain"
)

func testParams() Params {
	return Params{
		KuhnLength:     1.5,
		BendStiffness:  4.1,
		StretchModulus: 50.0,
		BaseLength:     0.5,
		Temperature:    298.15,
		Step:           1.0,
	}
}

func randomConformation(n int, rng *rand.Rand) chain.Conformation {
	c := make(chain.Conformation, n)
	for i := range c {
		c[i] = r3.Vec{X: rng.NormFloat64() * 2, Y: rng.NormFloat64() * 2, Z: rng.NormFloat64() * 2}
	}
	return c
}

func TestBondedStraightLine(t *testing.T) {
	par := testParams()
	m := NewModel(par, nil, nil, nil)

	// Segments at exactly l_k: zero stretch, all interior cosines 1.
	c := chain.StraightLine(5, par.KuhnLength)
	expected := -par.BendStiffness * 3
	if got := m.Bonded(c); math.Abs(got-expected) > 1e-12 {
		t.Errorf("expected bonded energy %f, got %f", expected, got)
	}
}

func TestBondedRigidMotionInvariance(t *testing.T) {
	par := testParams()
	m := NewModel(par, nil, nil, nil)
	rng := rand.New(rand.NewSource(7))

	c := randomConformation(9, rng)
	u0 := m.Bonded(c)

	shifted := c.Clone()
	chain.Translate(shifted, r3.Vec{X: 3.2, Y: -1.1, Z: 0.7})
	if math.Abs(m.Bonded(shifted)-u0) > 1e-9 {
		t.Errorf("bonded energy changed under translation: %g vs %g", m.Bonded(shifted), u0)
	}

	rot := r3.NewRotation(1.1, r3.Vec{X: 1, Y: 2, Z: -1})
	rotated := make(chain.Conformation, len(c))
	for i, b := range c {
		rotated[i] = rot.Rotate(b)
	}
	if math.Abs(m.Bonded(rotated)-u0) > 1e-9 {
		t.Errorf("bonded energy changed under rotation: %g vs %g", m.Bonded(rotated), u0)
	}
}

func TestCosAnglesTermini(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{2, 3, 8} {
		cos := CosAngles(randomConformation(n, rng))
		if cos[0] != 0 || cos[n-1] != 0 {
			t.Errorf("n=%d: expected zero cosine at termini, got %f and %f", n, cos[0], cos[n-1])
		}
	}
}

func TestConstraintBoundaryViolation(t *testing.T) {
	par := testParams()
	inside := func(p r3.Vec) bool { return r3.Norm(p) < 2.0 }
	m := NewModel(par, inside, nil, nil)

	ok := chain.Conformation{{}, {X: 1}}
	if got := m.Constraint(ok, ok); got != 0 {
		t.Errorf("expected zero constraint energy inside boundary, got %f", got)
	}

	bad := chain.Conformation{{}, {X: 5}}
	if got := m.Constraint(bad, ok); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf for boundary violation, got %f", got)
	}
}

func TestConstraintForceDisplacement(t *testing.T) {
	par := testParams()
	// Pulling force along +x: energy is minus force times displacement.
	force := func(d r3.Vec) float64 { return -2.0 * d.X }
	m := NewModel(par, nil, force, nil)

	accepted := chain.Conformation{{}, {X: 1}}
	candidate := chain.Conformation{{X: 0.5}, {X: 1.5}}

	// Each bead moved +0.5 in x; two beads.
	expected := -2.0 * 0.5 * 2
	if got := m.Constraint(candidate, accepted); math.Abs(got-expected) > 1e-12 {
		t.Errorf("expected force energy %f, got %f", expected, got)
	}

	// Same candidate against itself: zero displacement, zero energy.
	if got := m.Constraint(candidate, candidate); got != 0 {
		t.Errorf("expected zero energy for zero displacement, got %f", got)
	}
}

func TestBoundaryShortCircuitsForce(t *testing.T) {
	par := testParams()
	calls := 0
	force := func(d r3.Vec) float64 { calls++; return 0 }
	never := func(p r3.Vec) bool { return false }
	m := NewModel(par, never, force, nil)

	c := chain.Conformation{{}, {X: 1}}
	if got := m.Constraint(c, c); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf, got %f", got)
	}
	if calls != 0 {
		t.Errorf("force field evaluated %d times despite boundary violation", calls)
	}
}

func TestInteraction(t *testing.T) {
	par := testParams()
	m := NewModel(par, nil, nil, nil)
	if got := m.Interaction(chain.Conformation{{}, {X: 1}}); got != 0 {
		t.Errorf("expected zero interaction when unset, got %f", got)
	}

	m = NewModel(par, nil, nil, func(c []r3.Vec) float64 { return float64(len(c)) })
	if got := m.Interaction(chain.Conformation{{}, {X: 1}, {X: 2}}); got != 3 {
		t.Errorf("expected interaction 3, got %f", got)
	}
}

func TestKT(t *testing.T) {
	par := testParams()
	kt := par.KT()
	if kt < 4.0 || kt > 4.2 {
		t.Errorf("kT at 298.15 K should be about 4.1 pN·nm, got %f", kt)
	}
}
