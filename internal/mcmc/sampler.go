package mcmc

import (
	"math"
	"math/rand"

	"github.com/sjfleming/ssDNA-MCMC/internal/chain"
	"github.com/sjfleming/ssDNA-MCMC/internal/moves"
	"github.com/sjfleming/ssDNA-MCMC/internal/physics"
)

// FixedPointMode selects how a proposal that displaces a fixed bead is
// handled.
type FixedPointMode int

const (
	// FixedOverwrite patches the candidate by forcing every fixed bead
	// back onto its assigned coordinate after the geometric move. This
	// can bend the proposal geometry around the patched bead. It is the
	// default.
	FixedOverwrite FixedPointMode = iota

	// FixedReject rejects any proposal whose raw candidate displaces a
	// fixed bead, leaving the proposal geometry untouched.
	FixedReject
)

func (m FixedPointMode) String() string {
	if m == FixedReject {
		return "reject"
	}
	return "overwrite"
}

// Counter tallies proposals and acceptances for one move kind.
type Counter struct {
	Proposed int
	Accepted int
}

// Proposal is a candidate conformation awaiting the acceptance test.
type Proposal struct {
	Beads chain.Conformation
	Kind  moves.Kind

	displacedFixed bool
}

// Sampler runs Metropolis-Hastings over chain conformations. It owns its
// random stream, counters, and trace; see the package comment for the
// threading rules.
type Sampler struct {
	model *physics.Model
	fixed chain.FixedPoints
	mode  FixedPointMode
	rng   *rand.Rand
	seed  int64

	initial chain.Conformation
	current chain.Conformation

	// Bonded plus interaction energy of the last accepted conformation.
	// The constraint term is excluded: it may be +Inf and is a function
	// of per-step displacement, not of position alone.
	currentEnergy float64

	counts [moves.NumKinds]Counter
	trace  []chain.Conformation
}

// New builds a sampler over the given energy model and initial
// conformation. Fixed points are applied to the initial conformation
// immediately; the seed determines the full sampling stream.
func New(model *physics.Model, initial chain.Conformation, fixed chain.FixedPoints, mode FixedPointMode, seed int64) *Sampler {
	if fixed == nil {
		fixed = chain.FixedPoints{}
	}
	init := initial.Clone()
	fixed.Apply(init)
	return &Sampler{
		model:   model,
		fixed:   fixed.Clone(),
		mode:    mode,
		rng:     rand.New(rand.NewSource(seed)),
		seed:    seed,
		initial: init.Clone(),
		current: init,
	}
}

// Propose draws a move kind uniformly, generates a candidate, and
// applies the fixed-point policy. The chosen kind's proposed counter is
// incremented whether or not the candidate is later accepted.
func (s *Sampler) Propose() Proposal {
	kind := moves.Pick(s.rng)
	s.counts[kind].Proposed++

	cand := moves.Propose(kind, s.current, s.model.Params(), s.rng)

	p := Proposal{Beads: cand, Kind: kind}
	if s.mode == FixedReject {
		p.displacedFixed = s.fixed.Displaced(cand)
	}
	s.fixed.Apply(cand)
	return p
}

// Accept runs the Metropolis test on p and mutates the chain on
// success. The acceptance probability is
//
//	min(1, exp(-(U + U_i + U_f - currentEnergy)/kT))
//
// where an infinite constraint energy forces probability exactly 0; the
// infinite branch never reaches the exponential, so no NaN can arise.
func (s *Sampler) Accept(p Proposal) bool {
	if p.displacedFixed {
		return false
	}

	bonded := s.model.Bonded(p.Beads)
	interaction := s.model.Interaction(p.Beads)
	constraint := s.model.Constraint(p.Beads, s.current)

	if math.IsInf(constraint, 1) {
		return false
	}

	total := bonded + interaction + constraint
	delta := total - s.currentEnergy
	if delta > 0 {
		r := s.rng.Float64()
		if r >= math.Exp(-delta/s.model.Params().KT()) {
			return false
		}
	}

	s.current = p.Beads
	s.currentEnergy = bonded + interaction
	s.counts[p.Kind].Accepted++
	return true
}

// Sample performs one full step: propose, accept or reject, and append
// the resulting conformation to the trace. It reports whether the
// proposal was accepted. A rejected step re-records the unchanged
// current conformation, so the trace grows by exactly one entry per
// step regardless.
func (s *Sampler) Sample() bool {
	accepted := s.Accept(s.Propose())
	s.trace = append(s.trace, s.current.Clone())
	return accepted
}

// Run performs n sampling steps.
func (s *Sampler) Run(n int) {
	for i := 0; i < n; i++ {
		s.Sample()
	}
}

// Current returns a copy of the current conformation.
func (s *Sampler) Current() chain.Conformation { return s.current.Clone() }

// CurrentEnergy returns the bonded plus interaction energy of the last
// accepted conformation. Constraint energy is excluded; see the package
// comment.
func (s *Sampler) CurrentEnergy() float64 { return s.currentEnergy }

// Beads returns the number of beads in the chain.
func (s *Sampler) Beads() int { return len(s.current) }

// Seed returns the seed this sampler was constructed with.
func (s *Sampler) Seed() int64 { return s.seed }

// Model returns the energy model the sampler scores candidates with.
func (s *Sampler) Model() *physics.Model { return s.model }

// Counts returns the per-kind proposal and acceptance tallies.
func (s *Sampler) Counts() [moves.NumKinds]Counter { return s.counts }

// Trace returns the recorded conformations, one per completed step. The
// returned slice is the sampler's own backing store; callers must not
// mutate it.
func (s *Sampler) Trace() []chain.Conformation { return s.trace }

// ResetAll clears the trace and all counters, restores the current
// conformation to the original initial conformation, and zeroes the
// stored energy.
func (s *Sampler) ResetAll() {
	s.trace = nil
	s.counts = [moves.NumKinds]Counter{}
	s.current = s.initial.Clone()
	s.currentEnergy = 0
}

// Thin destructively replaces the trace with the entries at 1-based
// positions stride, 2·stride, 3·stride, ... discarding all others.
func (s *Sampler) Thin(stride int) {
	if stride <= 1 {
		return
	}
	kept := s.trace[:0]
	for i := stride - 1; i < len(s.trace); i += stride {
		kept = append(kept, s.trace[i])
	}
	s.trace = kept
}
