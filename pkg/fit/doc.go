// Package fit implements the mutable per-fit engine: holders placed into a
// fit, the bidirectional link register connecting them, the on-demand
// memoizing attribute calculator, the state/effect activation gate, and a
// restriction register that flags invalid configurations.
//
// Everything in this package reads an immutable pkg/catalog.Catalog but
// owns its own mutable state; a Fit is the unit of exclusive ownership —
// no operation on a *Fit may be interleaved with another on the same
// *Fit from a different goroutine.
package fit
