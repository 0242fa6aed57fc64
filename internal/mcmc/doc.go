// Package mcmc samples freely-jointed-chain conformations from a
// Boltzmann distribution with Metropolis-Hastings.
//
// A [Sampler] owns one chain: its current conformation, a seedable
// random stream, per-move-kind counters, and the append-only trace. One
// step proposes a candidate with a uniformly chosen move kernel, scores
// it, accepts or rejects it, and records the resulting conformation:
//
//	s := mcmc.New(model, initial, fixed, mcmc.FixedOverwrite, seed)
//	s.Run(10000)
//	fmt.Println(s.AcceptanceRatios())
//
// The stored current energy is the bonded plus interaction energy of the
// last accepted conformation. It deliberately excludes the constraint
// term, which may be infinite and depends on per-step displacement, so
// it is recomputed for each candidate rather than accumulated. Callers
// comparing energies against CurrentEnergy must account for this.
//
// # Thread Safety
//
// Sampler instances are NOT thread-safe. For independent chains, use
// the [Ensemble] type, which gives each chain its own Sampler and seed.
package mcmc
