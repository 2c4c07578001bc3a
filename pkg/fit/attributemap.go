package fit

import "github.com/evefit/fitcalc/pkg/catalog"

// attributeMap is a dedicated value type with exactly two operations,
// read-with-memoize and invalidate, rather than a bare map a caller could
// write through directly. It is owned by exactly one Holder.
type attributeMap struct {
	values   map[catalog.AttrID]float64
	cappedBy map[catalog.AttrID]catalog.AttrID
}

func newAttributeMap() *attributeMap {
	return &attributeMap{
		values:   make(map[catalog.AttrID]float64),
		cappedBy: make(map[catalog.AttrID]catalog.AttrID),
	}
}

// lookup returns a memoized value without triggering computation.
func (m *attributeMap) lookup(attr catalog.AttrID) (float64, bool) {
	v, ok := m.values[attr]
	return v, ok
}

// memoize records a freshly computed value, optionally noting the cap
// attribute it depended on so Invalidate can cascade.
func (m *attributeMap) memoize(attr catalog.AttrID, v float64, capAttr catalog.AttrID, hasCap bool) {
	m.values[attr] = v
	if hasCap {
		m.cappedBy[attr] = capAttr
	} else {
		delete(m.cappedBy, attr)
	}
}

// invalidate evicts attr and cascades to any attribute on the same holder
// that was capped by attr. It reports whether attr was actually cached, so
// callers can skip further cascading work when it wasn't.
func (m *attributeMap) invalidate(attr catalog.AttrID) bool {
	_, was := m.values[attr]
	delete(m.values, attr)
	delete(m.cappedBy, attr)

	for a, cap := range m.cappedBy {
		if cap == attr {
			delete(m.values, a)
			delete(m.cappedBy, a)
		}
	}
	return was
}

// invalidateAll drops every memoized value (used on structural fit changes,
// see fit.go).
func (m *attributeMap) invalidateAll() {
	m.values = make(map[catalog.AttrID]float64)
	m.cappedBy = make(map[catalog.AttrID]catalog.AttrID)
}
