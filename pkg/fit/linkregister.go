package fit

import "github.com/evefit/fitcalc/pkg/catalog"

// linkRegister is the bidirectional index of live affectors. Target
// resolution (which holders a given affector currently hits) is computed
// on demand against the fit's live holder set rather than maintained as a
// second set of dictionaries: with fit sizes in the tens of holders this
// costs nothing measurable and it guarantees the forward and reverse
// views can never drift apart. The one index that IS maintained
// incrementally is byTarget, because that is the hot path read on every
// Calculator.get call.
type linkRegister struct {
	fit *Fit

	enabled  map[Affector]struct{}
	byTarget map[*Holder][]Affector
}

func newLinkRegister(f *Fit) *linkRegister {
	return &linkRegister{
		fit:      f,
		enabled:  make(map[Affector]struct{}),
		byTarget: make(map[*Holder][]Affector),
	}
}

// affectees resolves which holders an affector currently hits, by
// resolving the modifier's domain against the fit and narrowing by
// filter. It is a pure function of current fit
// structure: it does not consult enabled, so it gives the same answer
// whether or not aff happens to be registered.
func (r *linkRegister) affectees(aff Affector) []*Holder {
	mod := aff.Modifier
	src := aff.Source

	switch mod.Scope {
	case catalog.ScopeProjected:
		// No projection context is modeled: a projected-scope modifier only
		// ever applies onto a fit it is projected onto, never within the
		// single fit that owns it.
		return nil
	case catalog.ScopeGang:
		// Gang scope always includes the caster's own fit; with no gang
		// modeled there is no additional fleet member to reach, so it
		// resolves exactly like ScopeLocal here.
	}

	var root []*Holder
	switch mod.Domain {
	case catalog.DomainSelf:
		root = []*Holder{src}
	case catalog.DomainCharacter:
		if r.fit.character == nil {
			return nil
		}
		if mod.FilterType == catalog.FilterNone {
			return []*Holder{r.fit.character}
		}
		root = r.fit.holdersIn(locationCharacter)
	case catalog.DomainShip:
		if r.fit.ship == nil {
			return nil
		}
		if mod.FilterType == catalog.FilterNone {
			return []*Holder{r.fit.ship}
		}
		root = r.fit.holdersIn(locationShip)
	case catalog.DomainSpace:
		root = r.fit.holdersIn(locationSpace)
	case catalog.DomainOther:
		if src.other == nil {
			return nil
		}
		root = []*Holder{src.other}
	default:
		r.fit.logf("fit: unresolved domain %v on affector from type %d", mod.Domain, src.Type.ID)
		return nil
	}

	switch mod.FilterType {
	case catalog.FilterNone:
		return root
	case catalog.FilterAll:
		return root
	case catalog.FilterGroup:
		return filterHolders(root, func(h *Holder) bool {
			return h.Type.GroupID == catalog.GroupID(mod.FilterValue)
		})
	case catalog.FilterSkill:
		if mod.FilterValue == catalog.OwnerModifiesSelf {
			// Cross-reference the source holder's owner instead of matching
			// a skill requirement: the filter target IS the character that
			// owns the source holder, e.g. a skill's own effect acting on
			// the character that trained it.
			if r.fit.character == nil {
				return nil
			}
			return []*Holder{r.fit.character}
		}
		want := catalog.TypeID(mod.FilterValue)
		return filterHolders(root, func(h *Holder) bool {
			for _, rs := range h.Type.RequiredSkills() {
				if rs.Skill == want {
					return true
				}
			}
			return false
		})
	default:
		r.fit.logf("fit: unresolved filter type %v on affector from type %d", mod.FilterType, src.Type.ID)
		return nil
	}
}

func filterHolders(in []*Holder, keep func(*Holder) bool) []*Holder {
	var out []*Holder
	for _, h := range in {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}

// enableAffector computes the affector's current affectees, invalidates
// their cached target attribute, then adds the affector to the register.
// Affectee resolution never reads `enabled`, so resolving affectees
// before the register insertion is equivalent to resolving after — the
// insertion always precedes any subsequent read that would need it.
func (r *linkRegister) enableAffector(aff Affector) {
	if _, already := r.enabled[aff]; already {
		return
	}
	for _, affectee := range r.affectees(aff) {
		if affectee.attrs.invalidate(aff.Modifier.TgtAttr) {
			r.fit.notifyInvalidate(affectee, aff.Modifier.TgtAttr)
			r.fit.invalidateSource(affectee, aff.Modifier.TgtAttr)
		}
	}
	r.enabled[aff] = struct{}{}
	for _, affectee := range r.affectees(aff) {
		r.byTarget[affectee] = append(r.byTarget[affectee], aff)
	}
}

// disableAffector invalidates affectees while the affector is still live
// in the register (so affectees() and any dependent lookups see the same
// world that produced the cached value being evicted), then removes the
// affector.
func (r *linkRegister) disableAffector(aff Affector) {
	if _, present := r.enabled[aff]; !present {
		return
	}
	targets := r.affectees(aff)
	for _, affectee := range targets {
		if affectee.attrs.invalidate(aff.Modifier.TgtAttr) {
			r.fit.notifyInvalidate(affectee, aff.Modifier.TgtAttr)
			r.fit.invalidateSource(affectee, aff.Modifier.TgtAttr)
		}
	}
	delete(r.enabled, aff)
	for _, affectee := range targets {
		r.removeFromTarget(affectee, aff)
	}
}

func (r *linkRegister) removeFromTarget(h *Holder, aff Affector) {
	list := r.byTarget[h]
	for i, a := range list {
		if a == aff {
			list[i] = list[len(list)-1]
			r.byTarget[h] = list[:len(list)-1]
			break
		}
	}
	if len(r.byTarget[h]) == 0 {
		delete(r.byTarget, h)
	}
}

// getAffectors returns every affector currently aimed at attr on holder h,
// narrowed to the attribute being computed — Calculator.get asks for one
// attribute at a time.
func (r *linkRegister) getAffectors(h *Holder, attr catalog.AttrID) []Affector {
	var out []Affector
	for _, aff := range r.byTarget[h] {
		if aff.Modifier.TgtAttr == attr {
			out = append(out, aff)
		}
	}
	return out
}

// emittedBy returns the subset of currently enabled affectors whose
// source is h and whose src_attr is attr: the potential dependents of
// (h, attr) are exactly the affectees of the affectors that emit from it.
func (r *linkRegister) emittedBy(h *Holder, attr catalog.AttrID) []Affector {
	var out []Affector
	for aff := range r.enabled {
		if aff.Source == h && aff.Modifier.SrcKind == catalog.SrcAttribute && aff.Modifier.SrcAttr == attr {
			out = append(out, aff)
		}
	}
	return out
}

// rebuild recomputes byTarget from scratch against the current holder set.
// Called after every structural change (holder add/remove, ship/character/
// pairing assignment): affectors whose domain doesn't currently resolve
// are simply reconsidered on the next structural change.
func (r *linkRegister) rebuild() {
	r.byTarget = make(map[*Holder][]Affector)
	for aff := range r.enabled {
		for _, affectee := range r.affectees(aff) {
			r.byTarget[affectee] = append(r.byTarget[affectee], aff)
		}
	}
}

// dropHolder removes every affector this holder emits from the enabled
// set and from byTarget, and drops any byTarget entries naming it as a
// target.
func (r *linkRegister) dropHolder(h *Holder) {
	for _, aff := range h.allAffectors() {
		delete(r.enabled, aff)
	}
	delete(r.byTarget, h)
	for target, list := range r.byTarget {
		filtered := list[:0]
		for _, aff := range list {
			if aff.Source != h {
				filtered = append(filtered, aff)
			}
		}
		if len(filtered) == 0 {
			delete(r.byTarget, target)
		} else {
			r.byTarget[target] = filtered
		}
	}
}
