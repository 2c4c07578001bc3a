package fit

import "github.com/evefit/fitcalc/pkg/catalog"

// Violation is one offending holder reported by a RestrictionRegister.
type Violation struct {
	Holder *Holder
	Data   map[string]float64
}

// RestrictionRegister dispatches through a small interface rather than a
// restriction-kind enum plus switch, so new restriction registers plug in
// without touching Fit.
type RestrictionRegister interface {
	// Name identifies the restriction for Fit.Validate's result map.
	Name() string
	// Track is called once when a holder joins the fit.
	Track(h *Holder)
	// Untrack is called once when a holder leaves the fit.
	Untrack(h *Holder)
	// Validate re-checks every currently tracked holder and returns its
	// violations, or nil if none.
	Validate() []Violation
}

// CapitalItemRegister tracks ship-domain holders whose base (unmodified)
// volume is at least capitalVolumeThreshold, and requires the fit's ship
// to carry a truthy is_capital_size attribute.
type CapitalItemRegister struct {
	fit     *Fit
	tracked map[*Holder]struct{}
}

// capitalVolumeThreshold is the base-volume floor a ship-domain holder
// must meet to be tracked as a capital-size item.
const capitalVolumeThreshold = 4000.0

// NewCapitalItemRegister builds an empty CapitalItemRegister. It needs no
// reference to the owning Fit: Validate finds the ship through the fit of
// the holders it tracks. Fit.New adds one to its default restriction set.
func NewCapitalItemRegister() *CapitalItemRegister {
	return &CapitalItemRegister{tracked: make(map[*Holder]struct{})}
}

func (r *CapitalItemRegister) Name() string { return "capital_item" }

// Track adds h if it is ship-located, not the ship hull itself, and its
// static volume meets the capital threshold. Holders without a volume
// attribute are ignored.
func (r *CapitalItemRegister) Track(h *Holder) {
	if h.loc != locationShip {
		return
	}
	if h.fit != nil && h.fit.ship == h {
		return
	}
	vol, ok := h.Type.Attributes[catalog.AttrVolume]
	if !ok || vol < capitalVolumeThreshold {
		return
	}
	r.tracked[h] = struct{}{}
}

func (r *CapitalItemRegister) Untrack(h *Holder) {
	delete(r.tracked, h)
}

// Validate reads static attributes only, never the modified map: a
// restriction check must not depend on calculator state.
func (r *CapitalItemRegister) Validate() []Violation {
	if len(r.tracked) == 0 {
		return nil
	}

	var ship *Holder
	for h := range r.tracked {
		ship = h.fit.ship
		break
	}

	capital := false
	if ship != nil {
		if v, ok := ship.Type.Attributes[catalog.AttrIsCapitalSize]; ok && v != 0 {
			capital = true
		}
	}
	if capital {
		return nil
	}

	var violations []Violation
	for h := range r.tracked {
		vol := h.Type.Attributes[catalog.AttrVolume]
		violations = append(violations, Violation{
			Holder: h,
			Data: map[string]float64{
				"holder_volume": vol,
				"threshold":     capitalVolumeThreshold,
			},
		})
	}
	return violations
}
