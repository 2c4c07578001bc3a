package fit

import (
	"fmt"
	"log/slog"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// Fit is a mutable configuration of holders jointly evaluated. It is a
// unit of exclusive ownership: no operation on a *Fit may be interleaved
// with another on the same *Fit from a different goroutine.
type Fit struct {
	catalog *catalog.Catalog
	logger  *slog.Logger

	holders   []*Holder
	ship      *Holder
	character *Holder

	links      *linkRegister
	calculator *calculator

	restrictions []RestrictionRegister

	onInvalidate func(h *Holder, attr catalog.AttrID)
}

// Option configures a Fit at construction time.
type Option func(*Fit)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fit) { f.logger = l }
}

// WithRestriction registers an additional RestrictionRegister.
func WithRestriction(r RestrictionRegister) Option {
	return func(f *Fit) { f.restrictions = append(f.restrictions, r) }
}

// New builds an empty Fit backed by cat. By default it carries the capital
// item restriction register.
func New(cat *catalog.Catalog, opts ...Option) *Fit {
	f := &Fit{
		catalog: cat,
		logger:  slog.Default(),
	}
	f.links = newLinkRegister(f)
	f.calculator = newCalculator(f)
	f.restrictions = []RestrictionRegister{NewCapitalItemRegister()}

	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fit) logf(format string, args ...any) {
	f.logger.Warn(fmt.Sprintf(format, args...))
}

// Holders returns every holder currently in the fit.
func (f *Fit) Holders() []*Holder {
	out := make([]*Holder, len(f.holders))
	copy(out, f.holders)
	return out
}

// Character returns the fit's character singleton, or nil.
func (f *Fit) Character() *Holder { return f.character }

// Ship returns the fit's ship singleton, or nil.
func (f *Fit) Ship() *Holder { return f.ship }

func (f *Fit) holdersIn(loc location) []*Holder {
	var out []*Holder
	for _, h := range f.holders {
		if h.loc == loc {
			out = append(out, h)
		}
	}
	return out
}

// Add places a detached holder into the fit: registering it with the link
// register and every restriction register is one composite operation, and
// any failure mid-way rolls back the partial registrations.
func (f *Fit) Add(h *Holder) error {
	if h.fit != nil {
		return ErrAlreadyInFit
	}

	if h.Type.CategoryID == catalog.CategoryShip && f.ship != nil {
		return ErrShipAlreadySet
	}
	if h.Type.CategoryID == catalog.CategoryCharacter && f.character != nil {
		return ErrCharacterAlreadySet
	}

	h.fit = f
	f.holders = append(f.holders, h)
	if h.Type.CategoryID == catalog.CategoryShip {
		f.ship = h
	}
	if h.Type.CategoryID == catalog.CategoryCharacter {
		f.character = h
	}

	for _, aff := range h.activeAffectors() {
		f.links.enabled[aff] = struct{}{}
	}
	f.links.rebuild()
	f.invalidateAllAttributeMaps()

	for _, r := range f.restrictions {
		r.Track(h)
	}

	return nil
}

// Remove detaches a holder: clears every affector it emits, every
// registration naming it as a target, and untracks it from restriction
// registers.
func (f *Fit) Remove(h *Holder) error {
	if h.fit != f {
		return ErrNotInFit
	}

	for _, r := range f.restrictions {
		r.Untrack(h)
	}

	f.links.dropHolder(h)

	if h.other != nil {
		h.other.other = nil
		h.other = nil
	}
	if f.ship == h {
		f.ship = nil
	}
	if f.character == h {
		f.character = nil
	}
	for i, hh := range f.holders {
		if hh == h {
			f.holders[i] = f.holders[len(f.holders)-1]
			f.holders = f.holders[:len(f.holders)-1]
			break
		}
	}

	h.fit = nil
	f.links.rebuild()
	f.invalidateAllAttributeMaps()
	return nil
}

// Pair establishes the weak module<->charge "_other" relation, e.g.
// loading a charge into a module. Both holders must already belong to
// this fit.
func (f *Fit) Pair(a, b *Holder) error {
	if a.fit != f || b.fit != f {
		return ErrNotInFit
	}
	a.other, b.other = b, a
	f.links.rebuild()
	f.invalidateAllAttributeMaps()
	return nil
}

// Unpair clears a's (and its counterpart's) _other relation.
func (f *Fit) Unpair(a *Holder) error {
	if a.fit != f {
		return ErrNotInFit
	}
	if a.other != nil {
		a.other.other = nil
		a.other = nil
		f.links.rebuild()
		f.invalidateAllAttributeMaps()
	}
	return nil
}

func (f *Fit) invalidateAllAttributeMaps() {
	for _, h := range f.holders {
		for attr := range h.attrs.values {
			f.notifyInvalidate(h, attr)
		}
		h.attrs.invalidateAll()
	}
}

// enableAffector/disableAffector forward to the link register; they exist
// on Fit (rather than exposing linkRegister directly) so Holder's
// state/effect gate methods have a single narrow surface to call through.
func (f *Fit) enableAffector(aff Affector)  { f.links.enableAffector(aff) }
func (f *Fit) disableAffector(aff Affector) { f.links.disableAffector(aff) }

// invalidateSource walks the affectors emitted from (h, attr), invalidates
// each affectee's target attribute, and recurses into it so the cascade
// reaches transitive dependents.
func (f *Fit) invalidateSource(h *Holder, attr catalog.AttrID) {
	if h.attrs.invalidate(attr) {
		f.notifyInvalidate(h, attr)
	}
	for _, aff := range f.links.emittedBy(h, attr) {
		for _, affectee := range f.links.affectees(aff) {
			if affectee.attrs.invalidate(aff.Modifier.TgtAttr) {
				f.notifyInvalidate(affectee, aff.Modifier.TgtAttr)
				f.invalidateSource(affectee, aff.Modifier.TgtAttr)
			}
		}
	}
}

// SetInvalidationHook registers fn to be called once for every
// (holder, attribute) pair evicted from a cache by any mutation on this
// fit. It is an observability hook only — nothing in pkg/fit depends on
// it — used by pkg/fitserver to push "invalidated" events to connected
// WebSocket clients without requiring the core calculator to know
// anything about transport.
func (f *Fit) SetInvalidationHook(fn func(h *Holder, attr catalog.AttrID)) {
	f.onInvalidate = fn
}

func (f *Fit) notifyInvalidate(h *Holder, attr catalog.AttrID) {
	if f.onInvalidate != nil {
		f.onInvalidate(h, attr)
	}
}

// Validate runs every registered RestrictionRegister and collects their
// violations. A nil/empty result means every restriction passed.
func (f *Fit) Validate() map[string][]Violation {
	out := make(map[string][]Violation)
	for _, r := range f.restrictions {
		if v := r.Validate(); len(v) > 0 {
			out[r.Name()] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
