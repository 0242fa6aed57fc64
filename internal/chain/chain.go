package chain

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Conformation is the ordered bead positions of a linear chain, in nm.
type Conformation []r3.Vec

func (c Conformation) Clone() Conformation {
	out := make(Conformation, len(c))
	copy(out, c)
	return out
}

func (c Conformation) IsValid() bool {
	for _, b := range c {
		if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsNaN(b.Z) {
			return false
		}
		if math.IsInf(b.X, 0) || math.IsInf(b.Y, 0) || math.IsInf(b.Z, 0) {
			return false
		}
	}
	return true
}

// Equal reports exact position-wise equality. Sampling never synthesizes
// coordinates, so rejected steps reproduce bit-identical conformations.
func (c Conformation) Equal(other Conformation) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// FixedPoints maps a zero-based bead index to its required position.
type FixedPoints map[int]r3.Vec

func (f FixedPoints) Clone() FixedPoints {
	out := make(FixedPoints, len(f))
	for i, p := range f {
		out[i] = p
	}
	return out
}

// Apply overwrites every fixed bead of c with its assigned coordinate.
func (f FixedPoints) Apply(c Conformation) {
	for i, p := range f {
		if i >= 0 && i < len(c) {
			c[i] = p
		}
	}
}

// Displaced reports whether any fixed bead of c differs from its
// assigned coordinate.
func (f FixedPoints) Displaced(c Conformation) bool {
	for i, p := range f {
		if i >= 0 && i < len(c) && c[i] != p {
			return true
		}
	}
	return false
}

// BeadCount computes the number of beads for a chain of the given number
// of bases: ceil((L - lb)/lk) + 1 with contour length L = bases*lb.
func BeadCount(bases int, lb, lk float64) int {
	contour := float64(bases) * lb
	return int(math.Ceil((contour-lb)/lk)) + 1
}

// BeadForBase converts a one-based base number to the zero-based index of
// the bead holding that base.
func BeadForBase(base int, lb, lk float64) int {
	return int(math.Ceil(float64(base)*lb/lk)) - 1
}

// StraightLine builds an n-bead conformation along +x with spacing lk,
// starting at the origin.
func StraightLine(n int, lk float64) Conformation {
	c := make(Conformation, n)
	for i := range c {
		c[i] = r3.Vec{X: float64(i) * lk}
	}
	return c
}

// Translate shifts every bead of c by d, in place.
func Translate(c Conformation, d r3.Vec) {
	for i := range c {
		c[i] = r3.Add(c[i], d)
	}
}
