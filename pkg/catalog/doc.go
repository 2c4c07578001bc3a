// Package catalog holds the immutable static descriptors a fit is built
// from: item Types, the Effects they carry, the Modifiers those effects
// declare, and the AttributeMetadata that tells the calculator how to
// combine them.
//
// Nothing in this package is mutable once constructed. A Catalog is built
// once (typically by pkg/catalogstore) and shared read-only across every
// Fit in the process; see pkg/fit for the mutable per-fit state that
// references it.
package catalog
