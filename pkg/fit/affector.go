package fit

import "github.com/evefit/fitcalc/pkg/catalog"

// Affector is the value pair (source holder, modifier) — one concrete
// active modification edge. Equality is by identity of both fields, so
// Affector is deliberately a plain comparable struct usable as a map key:
// two effects that happen to declare byte-identical Modifier values on
// the same source holder are, by this definition, the same affector.
type Affector struct {
	Source   *Holder
	Modifier catalog.Modifier
}
