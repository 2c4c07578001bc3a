package fit

import "github.com/evefit/fitcalc/pkg/catalog"

// location classifies which fit-wide grouping a holder belongs to for the
// purposes of domain=character/ship/space filter=all/group/skill
// resolution. It is distinct from the fit's character/ship *singleton*
// pointers, which domain=character/ship filter=none resolve to directly.
type location int8

const (
	locationShip location = iota
	locationCharacter
	locationSpace
)

// locationForCategory derives a holder's location from its type's
// category, mirroring the well-known EVE category numbering pkg/catalog
// documents.
func locationForCategory(cat catalog.CategoryID) location {
	switch cat {
	case catalog.CategorySkill, catalog.CategoryImplant, catalog.CategoryCharacter:
		return locationCharacter
	case catalog.CategoryDrone:
		return locationSpace
	default:
		// ship, module, charge, subsystem and anything else fitted to the
		// hull live in the ship location.
		return locationShip
	}
}

// Holder is a placed instance of a Type inside a Fit. It is mutable and
// is owned by exactly one Fit at a time; outside a fit it is "detached"
// and carries no modifiers from or to anything else.
type Holder struct {
	Type *catalog.Type

	state           catalog.State
	disabledEffects map[catalog.EffectID]struct{}
	attrs           *attributeMap
	loc             location

	// skillLevel backs the one externally writable attribute
	// (catalog.AttrSkillLevel); it is holder-local, not shared via Type,
	// since two holders of the same skill Type could in principle carry
	// independent levels.
	skillLevel int

	fit   *Fit
	other *Holder // weak relation resolved via lookup, e.g. module<->charge
}

// NewHolder creates a detached holder of the given type.
func NewHolder(t *catalog.Type) *Holder {
	h := &Holder{
		Type:            t,
		state:           catalog.Offline,
		disabledEffects: make(map[catalog.EffectID]struct{}),
		attrs:           newAttributeMap(),
		loc:             locationForCategory(t.CategoryID),
	}
	if lvl, ok := t.Attributes[catalog.AttrSkillLevel]; ok {
		h.skillLevel = int(lvl)
	}
	return h
}

// State returns the holder's current activity level.
func (h *Holder) State() catalog.State { return h.state }

// Fit returns the fit the holder currently belongs to, or nil if detached.
func (h *Holder) Fit() *Fit { return h.fit }

// Other returns the holder's paired counterpart (e.g. a module's loaded
// charge, or a charge's carrying module), or nil if unpaired.
func (h *Holder) Other() *Holder { return h.other }

// EffectEnabled reports whether eid is currently enabled on this holder.
func (h *Holder) EffectEnabled(eid catalog.EffectID) bool {
	_, disabled := h.disabledEffects[eid]
	return !disabled
}

// Get reads attribute attr's current effective value, computing and
// memoizing it if necessary. Detached holders (fit == nil) resolve
// strictly against their static base attributes: no affector can reach a
// holder that isn't part of a fit.
func (h *Holder) Get(attr catalog.AttrID) (float64, error) {
	if attr == catalog.AttrSkillLevel && h.Type.CategoryID == catalog.CategorySkill {
		return float64(h.skillLevel), nil
	}
	if h.fit == nil {
		if v, ok := h.Type.Attributes[attr]; ok {
			return v, nil
		}
		return 0, ErrAttributeNotFound
	}
	return h.fit.calculator.get(h, attr, newEvalContext())
}

// SetSkillLevel writes the one attribute callers are allowed to mutate
// directly. It invalidates every cached value that, directly or
// transitively, read this holder's skill_level.
func (h *Holder) SetSkillLevel(level int) error {
	if h.Type.CategoryID != catalog.CategorySkill {
		return ErrNotSkillHolder
	}
	h.skillLevel = level
	if h.fit != nil {
		h.fit.invalidateSource(h, catalog.AttrSkillLevel)
	}
	return nil
}

// SetState transitions the holder to a new activity level, enabling or
// disabling the affectors its effects emit at the crossed state floors.
// Raising a holder above its type's max_state fails.
func (h *Holder) SetState(newState catalog.State) error {
	if newState > h.Type.MaxState() {
		return ErrInvalidState
	}
	if newState == h.state {
		return nil
	}
	old := h.state
	h.state = newState

	for _, eid := range h.Type.Effects {
		if !h.EffectEnabled(eid) {
			continue
		}
		eff, ok := h.effect(eid)
		if !ok {
			continue
		}
		for _, mod := range eff.Modifiers {
			aff := Affector{Source: h, Modifier: mod}
			if newState > old {
				if mod.State > old && mod.State <= newState {
					h.fit.enableAffector(aff)
				}
			} else {
				if mod.State > newState && mod.State <= old {
					h.fit.disableAffector(aff)
				}
			}
		}
	}
	return nil
}

// EnableEffect turns an effect back on, activating the modifiers whose
// state floor the holder currently satisfies.
func (h *Holder) EnableEffect(eid catalog.EffectID) {
	if h.EffectEnabled(eid) {
		return
	}
	delete(h.disabledEffects, eid)
	eff, ok := h.effect(eid)
	if !ok || h.fit == nil {
		return
	}
	for _, mod := range eff.Modifiers {
		if mod.State <= h.state {
			h.fit.enableAffector(Affector{Source: h, Modifier: mod})
		}
	}
}

// DisableEffect turns an effect off, deactivating its currently active
// modifiers.
func (h *Holder) DisableEffect(eid catalog.EffectID) {
	if !h.EffectEnabled(eid) {
		return
	}
	eff, ok := h.effect(eid)
	present := ok
	h.disabledEffects[eid] = struct{}{}
	if !present || h.fit == nil {
		return
	}
	for _, mod := range eff.Modifiers {
		if mod.State <= h.state {
			h.fit.disableAffector(Affector{Source: h, Modifier: mod})
		}
	}
}

// activeAffectors returns the (effect, modifier) affectors this holder
// currently emits given its state and disabled-effects set — used when a
// holder is first added to a fit, registering them with the Link Register
// in a single atomic step.
func (h *Holder) activeAffectors() []Affector {
	var out []Affector
	for _, eid := range h.Type.Effects {
		if !h.EffectEnabled(eid) {
			continue
		}
		eff, ok := h.effect(eid)
		if !ok {
			continue
		}
		for _, mod := range eff.Modifiers {
			if mod.State <= h.state {
				out = append(out, Affector{Source: h, Modifier: mod})
			}
		}
	}
	return out
}

// allAffectors returns every affector this holder could ever emit,
// regardless of current state/enablement — used to unregister everything
// on removal.
func (h *Holder) allAffectors() []Affector {
	var out []Affector
	for _, eid := range h.Type.Effects {
		eff, ok := h.effect(eid)
		if !ok {
			continue
		}
		for _, mod := range eff.Modifiers {
			out = append(out, Affector{Source: h, Modifier: mod})
		}
	}
	return out
}

func (h *Holder) effect(eid catalog.EffectID) (*catalog.Effect, bool) {
	if h.fit == nil {
		return nil, false
	}
	return h.fit.catalog.Effect(eid)
}
