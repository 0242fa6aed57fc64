// Package physics defines the energy model of the freely-jointed chain:
// physical parameters, the bonded (stretch + bend) potential, and the
// capability types for user-supplied boundaries, force fields and
// interaction potentials.
//
// Energies are in pN·nm. The constraint term is evaluated per candidate
// against the last accepted conformation and may be +Inf for a boundary
// violation; it is never part of the stored chain energy.
package physics
